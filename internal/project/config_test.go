package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "lualint.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[check]
luals = "/opt/luals/bin/lua-language-server"
show = "info"
fail = "error"
checklevel = "Hint"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Check.Luals != "/opt/luals/bin/lua-language-server" {
		t.Errorf("Luals = %q", cfg.Check.Luals)
	}
	if cfg.Check.Show != "info" || cfg.Check.Fail != "error" {
		t.Errorf("thresholds = %q/%q, want info/error", cfg.Check.Show, cfg.Check.Fail)
	}
	if cfg.Check.CheckLevel != "Hint" {
		t.Errorf("CheckLevel = %q, want Hint", cfg.Check.CheckLevel)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[check]
shw = "info"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig should reject unknown keys")
	}
}

func TestFindLualintTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[check]\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	path, ok, err := FindLualintToml(nested)
	if err != nil {
		t.Fatalf("FindLualintToml failed: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if filepath.Dir(path) != root {
		t.Errorf("manifest at %q, want under %q", path, root)
	}
}

func TestLoadConfigForMissingManifest(t *testing.T) {
	cfg, manifest, err := LoadConfigFor(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfigFor failed: %v", err)
	}
	if manifest != "" {
		t.Errorf("manifest = %q, want empty", manifest)
	}
	if cfg.Check.Luals != "" {
		t.Errorf("cfg should be zero, got %+v", cfg)
	}
}
