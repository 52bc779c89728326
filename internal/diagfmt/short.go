package diagfmt

import (
	"fmt"
	"strings"

	"lualint/internal/diag"
)

// Short renders diagnostics one line per entry in a stable,
// grep-friendly shape:
//
//	<severity> <code> <path>:<line>:<col> <message>
//
// Unlike the pretty renderer it never wraps or groups; the artifact order
// is kept as-is.
func Short(displayed []diag.Diagnostic, root string, mode PathMode) string {
	var b strings.Builder
	for i, d := range displayed {
		code := d.Code
		if code == "" {
			code = "-"
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			d.Severity, code,
			displayPath(d.File, root, mode), d.Line, d.Col,
			sanitizeMessage(d.Message),
		)
		if i < len(displayed)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
