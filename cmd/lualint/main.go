// Package main implements the lualint CLI.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lualint/internal/version"
)

// Exit codes. Problems in the checked project and failures of the tooling
// itself must stay distinguishable by exit code alone.
const (
	exitOK        = 0
	exitProblems  = 1
	exitToolError = 2
)

// errProblemsFound marks a completed run whose fail threshold was crossed.
// Diagnostics are already printed by then; the error only carries the code.
var errProblemsFound = errors.New("problems found")

var rootCmd = &cobra.Command{
	Use:   "lualint",
	Short: "Diagnostics front-end for lua-language-server",
	Long:  `lualint runs lua-language-server in check mode and turns its findings into readable terminal output and CI-friendly exit codes`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	os.Exit(exitCodeFor(rootCmd.Execute()))
}

// exitCodeFor maps a command result onto the exit code contract: a clean
// run, a project whose fail threshold was crossed, and a failure of the
// tooling itself each get their own code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errProblemsFound):
		return exitProblems
	default:
		return exitToolError
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions of f.
func termSize(f *os.File) (width, height int, err error) {
	return term.GetSize(int(f.Fd()))
}
