package luals

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeServer writes a shell script standing in for lua-language-server.
// The runner invokes it as: --check <root> --checklevel <level>
// --check_out_path <artifact>, so "$6" is the artifact path.
func fakeServer(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake server scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "lua-language-server")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write fake server: %v", err)
	}
	return path
}

func TestExecRunnerToolNotFound(t *testing.T) {
	r := &ExecRunner{Executable: "lualint-no-such-binary"}
	_, err := r.Run(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out.json"))
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
}

func TestExecRunnerSucceeded(t *testing.T) {
	exe := fakeServer(t, `printf '[]' > "$6"
echo "Diagnosis complete, 0 problems found, see $6"
exit 0
`)
	artifact := filepath.Join(t.TempDir(), "out.json")
	r := &ExecRunner{Executable: exe}
	out, err := r.Run(context.Background(), t.TempDir(), artifact)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Status != ToolSucceeded {
		t.Errorf("status = %v, want ToolSucceeded", out.Status)
	}
	if out.ArtifactPath != artifact {
		t.Errorf("artifact path = %q, want %q", out.ArtifactPath, artifact)
	}
}

func TestExecRunnerReportedProblems(t *testing.T) {
	exe := fakeServer(t, `printf '[]' > "$6"
exit 1
`)
	artifact := filepath.Join(t.TempDir(), "out.json")
	r := &ExecRunner{Executable: exe}
	out, err := r.Run(context.Background(), t.TempDir(), artifact)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Status != ToolReportedProblems {
		t.Errorf("status = %v, want ToolReportedProblems", out.Status)
	}
}

func TestExecRunnerCrashCapturesStderr(t *testing.T) {
	exe := fakeServer(t, `echo "lua panic: out of cheese" >&2
exit 3
`)
	r := &ExecRunner{Executable: exe}
	out, err := r.Run(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out.json"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Status != ToolFailedToRun {
		t.Fatalf("status = %v, want ToolFailedToRun", out.Status)
	}
	if out.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", out.ExitCode)
	}
	if !bytes.Contains([]byte(out.Stderr), []byte("out of cheese")) {
		t.Errorf("stderr = %q, want captured panic message", out.Stderr)
	}
}

func TestExecRunnerArtifactPathFallback(t *testing.T) {
	// Simulates a server build that ignores --check_out_path and reports
	// where it wrote check.json on its final stdout line.
	legacy := filepath.Join(t.TempDir(), "check.json")
	exe := fakeServer(t, `printf '[]' > `+legacy+`
echo "Diagnosis complete, 0 problems found, see `+legacy+`"
exit 0
`)
	r := &ExecRunner{Executable: exe}
	out, err := r.Run(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "ignored.json"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.ArtifactPath != legacy {
		t.Errorf("artifact path = %q, want fallback %q", out.ArtifactPath, legacy)
	}
}

func TestExecRunnerArtifactPathFallbackRelative(t *testing.T) {
	// Some server builds report the artifact location relative to the
	// working directory ("see check.json"); the fallback must resolve it
	// before testing for existence.
	if runtime.GOOS == "windows" {
		t.Skip("fake server scripts require a POSIX shell")
	}
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change working directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origWD); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	exe := fakeServer(t, `printf '[]' > check.json
echo "Diagnosis complete, 0 problems found, see check.json"
exit 0
`)
	r := &ExecRunner{Executable: exe}
	out, err := r.Run(context.Background(), wd, filepath.Join(t.TempDir(), "ignored.json"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := filepath.Join(wd, "check.json"); out.ArtifactPath != want {
		t.Errorf("artifact path = %q, want %q", out.ArtifactPath, want)
	}
}

func TestExecRunnerTee(t *testing.T) {
	exe := fakeServer(t, `printf '[]' > "$6"
echo "working hard"
exit 0
`)
	var tee bytes.Buffer
	r := &ExecRunner{Executable: exe, Tee: &tee}
	if _, err := r.Run(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out.json")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !bytes.Contains(tee.Bytes(), []byte("working hard")) {
		t.Errorf("tee = %q, want streamed stdout", tee.String())
	}
}
