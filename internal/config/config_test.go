package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if cfg.AllowedError != want.AllowedError || cfg.SampleRate != want.SampleRate {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadOverlaysTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sushi.toml")
	toml := "allowed_error = 0.05\nmin_group_size = 20\n"
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AllowedError != 0.05 {
		t.Errorf("AllowedError = %v, want 0.05", cfg.AllowedError)
	}
	if cfg.MinGroupSize != 20 {
		t.Errorf("MinGroupSize = %v, want 20", cfg.MinGroupSize)
	}
	if cfg.MaxGroupStd != Default().MaxGroupStd {
		t.Errorf("MaxGroupStd should keep default, got %v", cfg.MaxGroupStd)
	}
}
