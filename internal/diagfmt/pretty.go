package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lualint/internal/diag"
)

const messageIndent = "    "

var (
	errorColor   = color.New(color.FgHiRed)
	warningColor = color.New(color.FgHiYellow)
	infoColor    = color.New(color.FgHiWhite)
	hintColor    = color.New(color.FgHiCyan)
	codeColor    = color.New(color.Bold)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	bannerColorStyle = bannerStyle.
				BorderForeground(lipgloss.Color("9")).
				Foreground(lipgloss.Color("9")).
				Bold(true)
)

// Pretty renders displayed diagnostics grouped by file in first-seen order,
// one blank-line-separated block per diagnostic:
//
//	<path>:<line>:<col> [<code or severity>]
//	    <severity>: <message>
//
// Relative order within a file is exactly the artifact's order.
func Pretty(w io.Writer, displayed []diag.Diagnostic, opts PrettyOpts) {
	order, groups := groupByFile(displayed)
	for _, file := range order {
		for _, d := range groups[file] {
			writeBlock(w, d, opts)
		}
	}
}

func writeBlock(w io.Writer, d diag.Diagnostic, opts PrettyOpts) {
	fmt.Fprintf(w, "%s:%s [%s]\n",
		displayPath(d.File, opts.Root, opts.PathMode),
		formatRange(d),
		formatCode(d, opts.Color),
	)

	plainLabel := d.Severity.String()
	lines := wrap(plainLabel+": "+d.Message, wrapWidth(opts.Width))
	if opts.Color {
		// Wrapping measured the plain label; swap in the colored one after.
		lines[0] = severityLabel(d.Severity, true) + strings.TrimPrefix(lines[0], plainLabel)
	}
	for _, line := range lines {
		fmt.Fprintf(w, "%s%s\n", messageIndent, line)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s- %s:%d:%d", messageIndent, displayPath(n.File, opts.Root, opts.PathMode), n.Line, n.Col)
			if n.Msg != "" {
				fmt.Fprintf(w, ": %s", n.Msg)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}

// Summary prints the one-line run summary, always, even for a clean check.
func Summary(w io.Writer, displayedCount int, artifactPath string) {
	fmt.Fprintf(w, "Diagnosis complete, %d problems found, see %s\n", displayedCount, artifactPath)
}

// ErrorBanner prints the unmistakable final block when fail-threshold
// diagnostics exist. It is presentation only; the exit code is decided by
// the caller from the same count.
func ErrorBanner(w io.Writer, errorCount int, useColor bool) {
	msg := fmt.Sprintf("%d problems at or above the fail threshold", errorCount)
	style := bannerStyle
	if useColor {
		style = bannerColorStyle
	}
	fmt.Fprintln(w, style.Render(msg))
}

func groupByFile(displayed []diag.Diagnostic) ([]string, map[string][]diag.Diagnostic) {
	order := make([]string, 0, len(displayed))
	groups := make(map[string][]diag.Diagnostic, len(displayed))
	for _, d := range displayed {
		if _, seen := groups[d.File]; !seen {
			order = append(order, d.File)
		}
		groups[d.File] = append(groups[d.File], d)
	}
	return order, groups
}

func displayPath(path, root string, mode PathMode) string {
	if mode == PathModeAbsolute || root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return path
	}
	return rel
}

func formatRange(d diag.Diagnostic) string {
	if d.EndLine == d.Line && d.EndCol == d.Col {
		return fmt.Sprintf("%d:%d", d.Line, d.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", d.Line, d.Col, d.EndLine, d.EndCol)
}

func formatCode(d diag.Diagnostic, useColor bool) string {
	text := d.Code
	if text == "" {
		text = d.Severity.String()
	}
	if useColor {
		return codeColor.Sprint(text)
	}
	return text
}

func severityLabel(s diag.Severity, useColor bool) string {
	if !useColor {
		return s.String()
	}
	switch s {
	case diag.SevError:
		return errorColor.Sprint(s.String())
	case diag.SevWarning:
		return warningColor.Sprint(s.String())
	case diag.SevInfo:
		return infoColor.Sprint(s.String())
	default:
		return hintColor.Sprint(s.String())
	}
}

func wrapWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	width -= len(messageIndent)
	if width < 16 {
		width = 16
	}
	return width
}

// wrap breaks text into lines no wider than width terminal cells,
// measuring with runewidth so CJK messages wrap correctly.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	lines = append(lines, line.String())
	return lines
}
