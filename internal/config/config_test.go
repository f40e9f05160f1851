package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsUnknownLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layouts = []string{"tall", "bogus"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for unknown layout")
	}
}

func TestValidateRejectsDuplicateTags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tags = []string{"1", "1"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for duplicate tags")
	}
}

func TestValidateRejectsUnknownKeyAction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keys = map[string]string{"Mod4-z": "teleport"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for unknown key action")
	}
}

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if len(res.Config.Tags) != len(DefaultConfig().Tags) {
		t.Fatalf("expected default tags when file is missing")
	}
}

func TestLoadFromPathOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "tags: [\"a\", \"b\"]\nborder_width: 3\nlayouts: [\"full\"]\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if len(res.Config.Tags) != 2 || res.Config.Tags[0] != "a" {
		t.Fatalf("Tags = %v, want [a b]", res.Config.Tags)
	}
	if res.Config.BorderWidth != 3 {
		t.Fatalf("BorderWidth = %d, want 3", res.Config.BorderWidth)
	}
	if res.Config.Border.Focused != DefaultConfig().Border.Focused {
		t.Fatalf("unset border color should keep default")
	}
}

func TestLoadFromPathRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("not_a_real_field: true\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("LoadFromPath = nil, want error for unknown field")
	}
}
