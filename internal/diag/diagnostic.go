package diag

// Note carries a related-information entry attached to a diagnostic,
// pointing at another location that explains the primary one.
type Note struct {
	File string
	Line uint32
	Col  uint32
	Msg  string
}

// Diagnostic is the normalized form of one record from the diagnostics
// artifact. File is a canonical absolute path; positions are 1-based with
// inclusive start. InRoot is computed once during normalization and is the
// only attribute the filter derives decisions from besides Severity.
type Diagnostic struct {
	File     string
	Line     uint32
	Col      uint32
	EndLine  uint32
	EndCol   uint32
	Severity Severity
	Code     string
	Message  string
	InRoot   bool
	Notes    []Note
}
