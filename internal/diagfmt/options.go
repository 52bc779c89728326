// Package diagfmt renders filtered diagnostics for humans and machines.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to the project root when they are
	// under it, absolute otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Width caps the rendered line width for wrapped messages. 0 means 80.
	Width    int
	PathMode PathMode
	// Root is the canonical project root used for relative display.
	Root      string
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	Root     string
}
