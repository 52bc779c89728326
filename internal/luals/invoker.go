package luals

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Status classifies how the server run ended.
type Status uint8

const (
	// ToolSucceeded means the server exited cleanly. The artifact may still
	// contain diagnostics; its exit code does not decide ours.
	ToolSucceeded Status = iota
	// ToolReportedProblems means the server's own exit status signals that
	// its check found diagnostics. Not a pipeline failure.
	ToolReportedProblems
	// ToolFailedToRun means the server crashed or was killed.
	ToolFailedToRun
)

// Outcome captures one server run.
type Outcome struct {
	Status   Status
	ExitCode int
	// ArtifactPath is where the diagnostics artifact actually ended up:
	// the requested path, or the path recovered from the server's stdout
	// when the installed version ignores --check_out_path.
	ArtifactPath string
	Stdout       string
	Stderr       string
}

// Runner abstracts the external check run so the pipeline can be exercised
// without a real lua-language-server installation.
type Runner interface {
	Run(ctx context.Context, root, artifactPath string) (Outcome, error)
}

// ExecRunner launches a real lua-language-server process.
type ExecRunner struct {
	// Executable is the server binary name or path.
	Executable string
	// CheckLevel is forwarded to --checklevel. It bounds what the server
	// reports at all, so it should sit at or below the show threshold.
	CheckLevel string
	// Tee, when set, receives the server's stdout as it is produced.
	Tee io.Writer
}

// Run executes `lua-language-server --check <root> --checklevel <level>
// --check_out_path <artifactPath>` and waits for it to finish. An error is
// returned only when the process could not be started at all; an abnormal
// exit is reported through Outcome.Status so the captured stderr travels
// with it.
func (r *ExecRunner) Run(ctx context.Context, root, artifactPath string) (Outcome, error) {
	exe, err := exec.LookPath(r.Executable)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrToolNotFound, r.Executable)
	}

	level := r.CheckLevel
	if level == "" {
		level = "Information"
	}

	cmd := exec.CommandContext(ctx, exe,
		"--check", root,
		"--checklevel", level,
		"--check_out_path", artifactPath,
	)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		dst := io.Writer(&stdout)
		if r.Tee != nil {
			dst = io.MultiWriter(&stdout, r.Tee)
		}
		_, copyErr := io.Copy(dst, stdoutPipe)
		return copyErr
	})
	g.Go(func() error {
		_, copyErr := io.Copy(&stderr, stderrPipe)
		return copyErr
	})

	streamErr := g.Wait()
	waitErr := cmd.Wait()

	out := Outcome{
		ArtifactPath: resolveArtifactPath(artifactPath, stdout.String()),
		Stdout:       stdout.String(),
		Stderr:       stderr.String(),
	}

	switch {
	case waitErr == nil:
		out.Status = ToolSucceeded
	default:
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return Outcome{}, fmt.Errorf("failed to wait for lua-language-server: %w", waitErr)
		}
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode == 1 {
			out.Status = ToolReportedProblems
		} else {
			out.Status = ToolFailedToRun
		}
	}

	if streamErr != nil && out.Status != ToolFailedToRun {
		return Outcome{}, fmt.Errorf("failed to capture lua-language-server output: %w", streamErr)
	}

	return out, nil
}

// resolveArtifactPath falls back to the artifact location the server prints
// on its final stdout line. Server builds that predate --check_out_path
// ignore the flag and report where they wrote check.json instead.
func resolveArtifactPath(requested, stdout string) string {
	if fileExists(requested) {
		return requested
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) == 0 {
		return requested
	}
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) == 0 {
		return requested
	}
	candidate := fields[len(fields)-1]
	if !filepath.IsAbs(candidate) {
		// Some builds print the artifact location relative to their
		// working directory.
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return requested
		}
		candidate = abs
	}
	if fileExists(candidate) {
		return candidate
	}
	return requested
}
