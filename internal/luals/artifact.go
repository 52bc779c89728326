package luals

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Position is an LSP position: 0-based line and character.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an LSP range, start inclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location pairs a file URI with a range inside it.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// RelatedInformation is an auxiliary location attached to a diagnostic.
type RelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Code accepts the LSP number-or-string diagnostic code.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Code(n.String())
		return nil
	}
	return fmt.Errorf("diagnostic code must be a string or a number, got %s", string(data))
}

// RawDiagnostic is one record exactly as the server wrote it.
// Severity is a pointer so a missing field is distinguishable from zero.
type RawDiagnostic struct {
	Range              Range                `json:"range"`
	Severity           *int                 `json:"severity"`
	Code               Code                 `json:"code"`
	Source             string               `json:"source"`
	Message            string               `json:"message"`
	RelatedInformation []RelatedInformation `json:"relatedInformation"`
}

// FileDiagnostics groups the raw diagnostics of one file, keyed by the URI
// the server used.
type FileDiagnostics struct {
	URI         string
	Diagnostics []RawDiagnostic
}

// ReadArtifact reads and parses the diagnostics artifact. The artifact is a
// JSON object mapping file URIs to diagnostic arrays; a clean check is
// written as an empty array. Decoding walks the token stream so the
// document's key order is preserved — unmarshalling into a Go map would
// destroy the ordering the rest of the pipeline guarantees.
func ReadArtifact(path string) ([]FileDiagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("failed to open diagnostics artifact %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, &ArtifactMalformedError{Path: path, Reason: "not valid JSON", Err: err}
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, &ArtifactMalformedError{Path: path, Reason: fmt.Sprintf("expected an object or empty array at top level, got %v", tok)}
	}

	switch delim {
	case '[':
		// Empty check: the server serializes "no diagnostics" as [].
		if dec.More() {
			return nil, &ArtifactMalformedError{Path: path, Reason: "top-level array must be empty"}
		}
		if _, err := dec.Token(); err != nil {
			return nil, &ArtifactMalformedError{Path: path, Reason: "unterminated array", Err: err}
		}
		return nil, nil
	case '{':
		// Fall through to the keyed decode below.
	default:
		return nil, &ArtifactMalformedError{Path: path, Reason: fmt.Sprintf("unexpected top-level delimiter %q", delim)}
	}

	var files []FileDiagnostics
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &ArtifactMalformedError{Path: path, Reason: "truncated object", Err: err}
		}
		uri, ok := keyTok.(string)
		if !ok {
			return nil, &ArtifactMalformedError{Path: path, Reason: fmt.Sprintf("object key is not a string: %v", keyTok)}
		}

		var diags []RawDiagnostic
		if err := dec.Decode(&diags); err != nil {
			return nil, &ArtifactMalformedError{Path: path, Reason: fmt.Sprintf("bad diagnostics for %s", uri), Err: err}
		}
		for i := range diags {
			if diags[i].Severity == nil {
				return nil, &ArtifactMalformedError{Path: path, Reason: fmt.Sprintf("diagnostic %d for %s has no severity field", i, uri)}
			}
		}
		files = append(files, FileDiagnostics{URI: uri, Diagnostics: diags})
	}
	if _, err := dec.Token(); err != nil {
		return nil, &ArtifactMalformedError{Path: path, Reason: "unterminated object", Err: err}
	}

	return files, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
