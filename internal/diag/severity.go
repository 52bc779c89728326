package diag

import "fmt"

// Severity defines the importance of a diagnostic.
// The order is load-bearing: threshold checks compare with >=, never by label.
type Severity uint8

const (
	// SevHint is for hint diagnostics, the least severe.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "hint"
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Severities lists every severity from least to most severe,
// in the vocabulary the CLI flags accept.
func Severities() []Severity {
	return []Severity{SevHint, SevInfo, SevWarning, SevError}
}

// ParseSeverity converts a CLI threshold value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "hint":
		return SevHint, nil
	case "info":
		return SevInfo, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevHint, fmt.Errorf("unknown severity %q (must be hint|info|warning|error)", s)
}
