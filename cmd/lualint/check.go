package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lualint/internal/diag"
	"lualint/internal/diagfmt"
	"lualint/internal/driver"
	"lualint/internal/luals"
	"lualint/internal/observ"
	"lualint/internal/project"
	"lualint/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [project]",
	Short: "Check a Lua project with lua-language-server",
	Long: `Check runs lua-language-server against the project directory (default: the
current directory), reads the diagnostics artifact it writes, and reports the
findings.

Only diagnostics inside the project root count: library and dependency files
are ignored entirely. --show controls what is printed; --fail controls what
makes the exit code nonzero. The fail threshold is evaluated over every
in-root diagnostic regardless of --show, so hiding output never hides a
failure.

Exit codes: 0 clean, 1 problems found, 2 the tool itself failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("luals", "c", "", "path to the lua-language-server executable")
	checkCmd.Flags().String("show", "", "display diagnostics at or above this severity (hint|info|warning|error)")
	checkCmd.Flags().String("fail", "", "fail on diagnostics at or above this severity (hint|info|warning|error)")
	checkCmd.Flags().String("artifact", "", "where the server should write its diagnostics artifact")
	checkCmd.Flags().String("checklevel", "", "severity level forwarded to the server's --checklevel")
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("with-notes", false, "include related-information notes in output")
	checkCmd.Flags().Bool("verbose", false, "stream the server's own output while it runs")
}

// checkSettings is the merged view of flags and lualint.toml.
type checkSettings struct {
	projectDir string
	luals      string
	show       diag.Severity
	fail       diag.Severity
	artifact   string
	checkLevel string
	format     string
	fullPath   bool
	withNotes  bool
	verbose    bool
	quiet      bool
	timings    bool
	useColor   bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := resolveCheckSettings(cmd, args)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	runner := &luals.ExecRunner{
		Executable: settings.luals,
		CheckLevel: settings.checkLevel,
	}
	if settings.verbose {
		runner.Tee = cmd.OutOrStdout()
	}

	opts := driver.CheckOptions{
		Root:         settings.projectDir,
		ArtifactPath: settings.artifact,
		Show:         settings.show,
		Fail:         settings.fail,
		Runner:       runner,
		Timer:        timer,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var result driver.CheckResult
	var checkErr error
	if useSpinner(settings) {
		done := make(chan struct{})
		go func() {
			defer close(done)
			result, checkErr = driver.Check(ctx, opts)
		}()
		interrupted, _ := ui.Wait("checking "+settings.projectDir, done)
		if interrupted {
			// Ctrl+C: kill the server and let the pipeline surface the
			// aborted run as a tool failure.
			cancel()
		}
		// result and checkErr are only safe to read once the pipeline
		// goroutine is gone, whatever made Wait return.
		<-done
	} else {
		result, checkErr = driver.Check(ctx, opts)
	}

	if settings.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	// Pipeline failures get a distinct presentation and a distinct exit
	// code: a broken tool must never look like a project with lint errors.
	if checkErr != nil {
		return failToolError(cmd, checkErr)
	}

	if settings.verbose && result.Outcome.Stderr != "" {
		fmt.Fprint(cmd.ErrOrStderr(), result.Outcome.Stderr)
	}

	if err := renderResult(cmd, settings, result); err != nil {
		return failToolError(cmd, err)
	}

	if result.ErrorCount > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errProblemsFound
	}
	return nil
}

func renderResult(cmd *cobra.Command, settings checkSettings, result driver.CheckResult) error {
	out := cmd.OutOrStdout()
	pathMode := diagfmt.PathModeAuto
	if settings.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch settings.format {
	case "pretty":
		diagfmt.Pretty(out, result.Displayed, diagfmt.PrettyOpts{
			Color:     settings.useColor,
			Width:     terminalWidth(),
			PathMode:  pathMode,
			Root:      result.Root,
			ShowNotes: settings.withNotes,
		})
		diagfmt.Summary(out, len(result.Displayed), result.ArtifactPath)
		if result.ErrorCount > 0 {
			diagfmt.ErrorBanner(out, result.ErrorCount, settings.useColor)
		}
	case "short":
		if s := diagfmt.Short(result.Displayed, result.Root, pathMode); s != "" {
			fmt.Fprintln(out, s)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{PathMode: pathMode, Root: result.Root}
		if err := diagfmt.JSON(out, result.Displayed, result.ErrorCount, result.ArtifactPath, jsonOpts); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", settings.format)
	}
	return nil
}

// failToolError prints the pipeline-error presentation and returns an error
// that maps to the tool-error exit code.
func failToolError(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	fmt.Fprintf(cmd.ErrOrStderr(), "lualint: error: %v\n", err)
	return err
}

func resolveCheckSettings(cmd *cobra.Command, args []string) (checkSettings, error) {
	var s checkSettings

	s.projectDir = "."
	if len(args) == 1 {
		s.projectDir = args[0]
	}

	cfg, _, err := project.LoadConfigFor(s.projectDir)
	if err != nil {
		return s, err
	}

	s.luals, err = stringSetting(cmd, "luals", cfg.Check.Luals, "lua-language-server")
	if err != nil {
		return s, err
	}
	showStr, err := stringSetting(cmd, "show", cfg.Check.Show, "hint")
	if err != nil {
		return s, err
	}
	failStr, err := stringSetting(cmd, "fail", cfg.Check.Fail, "warning")
	if err != nil {
		return s, err
	}
	s.checkLevel, err = stringSetting(cmd, "checklevel", cfg.Check.CheckLevel, "Information")
	if err != nil {
		return s, err
	}

	s.show, err = diag.ParseSeverity(showStr)
	if err != nil {
		return s, fmt.Errorf("invalid --show value: %w", err)
	}
	s.fail, err = diag.ParseSeverity(failStr)
	if err != nil {
		return s, fmt.Errorf("invalid --fail value: %w", err)
	}

	s.artifact, err = cmd.Flags().GetString("artifact")
	if err != nil {
		return s, err
	}
	if s.artifact == "" {
		s.artifact = filepath.Join(os.TempDir(), fmt.Sprintf("lualint-check-%d.json", os.Getpid()))
	}

	s.format, err = cmd.Flags().GetString("format")
	if err != nil {
		return s, err
	}
	s.fullPath, err = cmd.Flags().GetBool("fullpath")
	if err != nil {
		return s, err
	}
	s.withNotes, err = cmd.Flags().GetBool("with-notes")
	if err != nil {
		return s, err
	}
	s.verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return s, err
	}
	s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return s, err
	}
	s.timings, err = cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return s, err
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return s, err
	}
	s.useColor = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	return s, nil
}

// stringSetting merges a flag with its lualint.toml counterpart:
// an explicitly set flag wins, then the manifest, then the default.
func stringSetting(cmd *cobra.Command, name, configValue, fallback string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed(name) {
		return v, nil
	}
	if configValue != "" {
		return configValue, nil
	}
	return fallback, nil
}

func useSpinner(s checkSettings) bool {
	return !s.quiet && !s.verbose && s.format == "pretty" && isTerminal(os.Stderr)
}

func terminalWidth() int {
	if !isTerminal(os.Stdout) {
		return 80
	}
	w, _, err := termSize(os.Stdout)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
