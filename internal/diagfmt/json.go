package diagfmt

import (
	"encoding/json"
	"io"

	"lualint/internal/diag"
)

// LocationJSON is the rendered position of a diagnostic (1-based).
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// NoteJSON is a related-information entry.
type NoteJSON struct {
	Message string `json:"message"`
	File    string `json:"file"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
}

// DiagnosticJSON is one displayed diagnostic.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	ErrorCount  int              `json:"error_count"`
	Artifact    string           `json:"artifact"`
}

// BuildDiagnosticsOutput assembles the JSON payload without serializing it.
func BuildDiagnosticsOutput(displayed []diag.Diagnostic, errorCount int, artifactPath string, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(displayed)),
		Count:       len(displayed),
		ErrorCount:  errorCount,
		Artifact:    artifactPath,
	}
	for _, d := range displayed {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Location: LocationJSON{
				File:      displayPath(d.File, opts.Root, opts.PathMode),
				StartLine: d.Line,
				StartCol:  d.Col,
				EndLine:   d.EndLine,
				EndCol:    d.EndCol,
			},
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{
				Message: n.Msg,
				File:    displayPath(n.File, opts.Root, opts.PathMode),
				Line:    n.Line,
				Col:     n.Col,
			})
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes the machine-readable diagnostics report.
func JSON(w io.Writer, displayed []diag.Diagnostic, errorCount int, artifactPath string, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(displayed, errorCount, artifactPath, opts))
}
