package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsSettingsDefaults(t *testing.T) {
	// A file without a settings block must not disable the default
	// behaviors; zero-value booleans cannot be told apart from omissions
	// after unmarshalling, so the defaults are seeded first.
	path := writeConfig(t, "extractor:\n  mode: http\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Extractor.Mode != "http" {
		t.Errorf("mode: got %q, want http", c.Extractor.Mode)
	}
	s := c.Settings
	if !s.CreateStyles || !s.CreateComponents || !s.CreateVariables || !s.SiteAware {
		t.Errorf("settings defaults lost: %+v", s)
	}
	if s.MaxDepth != 25 || s.ImageQuality != "medium" {
		t.Errorf("settings fill-ins: %+v", s)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	path := writeConfig(t, `
extractor:
  mode: headless
settings:
  create_components: false
  max_depth: 10
store_path: /tmp/pagebridge.db
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Settings.CreateComponents {
		t.Error("create_components: explicit false was ignored")
	}
	if !c.Settings.CreateStyles {
		t.Error("create_styles: omitted key lost its default")
	}
	if c.Settings.MaxDepth != 10 {
		t.Errorf("max_depth: got %d, want 10", c.Settings.MaxDepth)
	}
	if c.StorePath != "/tmp/pagebridge.db" {
		t.Errorf("store_path: got %q", c.StorePath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of a missing file did not fail")
	}
}
