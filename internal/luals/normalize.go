package luals

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"lualint/internal/diag"
)

// CanonicalRoot resolves the project root to a canonical absolute path.
// Root membership of every diagnostic is decided against this value, so it
// must go through the same canonicalization as the diagnostic paths
// themselves.
func CanonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to make project root absolute: %w", err)
	}
	return canonicalize(abs), nil
}

// Normalize maps raw artifact records into the internal model: canonical
// absolute paths, 1-based positions, severities from the closed enum, and a
// precomputed root-membership bit. It never drops a record; selection is the
// filter's job.
func Normalize(files []FileDiagnostics, canonicalRoot string) (*diag.Bag, error) {
	total := 0
	for i := range files {
		total += len(files[i].Diagnostics)
	}
	bag := diag.NewBag(total)

	for _, file := range files {
		path, err := uriToPath(file.URI)
		if err != nil {
			return nil, err
		}
		path = canonicalize(resolveAgainst(canonicalRoot, path))
		inRoot := underRoot(canonicalRoot, path)

		for i := range file.Diagnostics {
			raw := &file.Diagnostics[i]
			sev, err := mapSeverity(*raw.Severity)
			if err != nil {
				return nil, err
			}
			line, col, endLine, endCol, err := convertRange(raw.Range)
			if err != nil {
				return nil, &ArtifactMalformedError{Path: file.URI, Reason: err.Error()}
			}
			d := diag.Diagnostic{
				File:     path,
				Line:     line,
				Col:      col,
				EndLine:  endLine,
				EndCol:   endCol,
				Severity: sev,
				Code:     string(raw.Code),
				Message:  raw.Message,
				InRoot:   inRoot,
			}
			for _, rel := range raw.RelatedInformation {
				if rel.Location.Range == raw.Range && (rel.Message == "" || rel.Message == raw.Message) {
					// Redundant echo of the primary location.
					continue
				}
				notePath, err := uriToPath(rel.Location.URI)
				if err != nil {
					// Related info is auxiliary; keep the URI verbatim
					// rather than failing the whole run.
					notePath = rel.Location.URI
				} else {
					notePath = canonicalize(resolveAgainst(canonicalRoot, notePath))
				}
				noteLine, err := oneBased(rel.Location.Range.Start.Line)
				if err != nil {
					return nil, &ArtifactMalformedError{Path: rel.Location.URI, Reason: err.Error()}
				}
				noteCol, err := oneBased(rel.Location.Range.Start.Character)
				if err != nil {
					return nil, &ArtifactMalformedError{Path: rel.Location.URI, Reason: err.Error()}
				}
				d.Notes = append(d.Notes, diag.Note{
					File: notePath,
					Line: noteLine,
					Col:  noteCol,
					Msg:  rel.Message,
				})
			}
			bag.Add(d)
		}
	}

	return bag, nil
}

// mapSeverity is the total mapping from LSP numeric severities to the
// internal scale. Extending it for a new server-reported value is a
// one-line change; anything outside the table is an error, not a default.
func mapSeverity(code int) (diag.Severity, error) {
	switch code {
	case 1:
		return diag.SevError, nil
	case 2:
		return diag.SevWarning, nil
	case 3:
		return diag.SevInfo, nil
	case 4:
		return diag.SevHint, nil
	}
	return 0, &UnknownSeverityError{Code: code}
}

// uriToPath converts a file:// URI into a filesystem path.
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", &ArtifactMalformedError{Path: uri, Reason: "invalid file URI", Err: err}
	}
	if u.Scheme != "file" {
		return "", &ArtifactMalformedError{Path: uri, Reason: fmt.Sprintf("unsupported URI scheme %q, expected \"file\"", u.Scheme)}
	}
	path := u.Path
	// Windows URIs look like file:///C:/dir; strip the leading slash when
	// a drive letter follows.
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

// canonicalize resolves symlinks where possible and cleans the path.
// Idempotent: a canonical path maps to itself.
func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Clean(path)
}

func resolveAgainst(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// underRoot decides root membership by prefix comparison on canonical
// paths, never on raw strings, so symlinked roots and "./" spellings agree.
func underRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// convertRange turns a 0-based range into 1-based positions. Positions
// outside uint32 bounds are rejected, never clamped.
func convertRange(r Range) (line, col, endLine, endCol uint32, err error) {
	if line, err = oneBased(r.Start.Line); err != nil {
		return 0, 0, 0, 0, err
	}
	if col, err = oneBased(r.Start.Character); err != nil {
		return 0, 0, 0, 0, err
	}
	if endLine, err = oneBased(r.End.Line); err != nil {
		return 0, 0, 0, 0, err
	}
	if endCol, err = oneBased(r.End.Character); err != nil {
		return 0, 0, 0, 0, err
	}
	return line, col, endLine, endCol, nil
}

func oneBased(n int) (uint32, error) {
	v, err := safecast.Conv[uint32](n + 1)
	if err != nil {
		return 0, fmt.Errorf("position %d is out of range", n)
	}
	return v, nil
}
