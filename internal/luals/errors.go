package luals

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound indicates the lua-language-server executable could not
	// be located or started.
	ErrToolNotFound = errors.New("lua-language-server executable not found")
	// ErrArtifactMissing indicates the diagnostics artifact does not exist
	// at any known location, typically because the server died before
	// writing it.
	ErrArtifactMissing = errors.New("diagnostics artifact missing")
)

// ToolCrashedError reports an abnormal server exit that is not the
// "problems found" status. Stderr is carried verbatim for diagnosis.
type ToolCrashedError struct {
	ExitCode int
	Stderr   string
}

func (e *ToolCrashedError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("lua-language-server crashed (exit code %d)", e.ExitCode)
	}
	return fmt.Sprintf("lua-language-server crashed (exit code %d):\n%s", e.ExitCode, e.Stderr)
}

// ArtifactMalformedError reports an artifact that exists but does not match
// the expected schema. Schema drift between server versions surfaces here
// rather than as a partial parse.
type ArtifactMalformedError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ArtifactMalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed diagnostics artifact %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed diagnostics artifact %s: %s", e.Path, e.Reason)
}

func (e *ArtifactMalformedError) Unwrap() error { return e.Err }

// UnknownSeverityError reports a severity code outside the documented LSP
// range. The code is named so the mapping table can be extended; it is never
// coerced to a default severity, which would hide records from the fail
// threshold.
type UnknownSeverityError struct {
	Code int
}

func (e *UnknownSeverityError) Error() string {
	return fmt.Sprintf("unknown severity code %d in diagnostics artifact", e.Code)
}
