package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Report.TopN != nil {
		t.Fatalf("expected unset fields")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[report]\ntop-n = 5\ndiff-limit = 0.1\ncolor = false\n\n[features]\ncutoff = 6\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Report.TopN == nil || *cfg.Report.TopN != 5 {
		t.Fatalf("unexpected top-n: %v", cfg.Report.TopN)
	}
	if cfg.Report.DiffLimit == nil || *cfg.Report.DiffLimit != 0.1 {
		t.Fatalf("unexpected diff-limit: %v", cfg.Report.DiffLimit)
	}
	if cfg.Report.Color == nil || *cfg.Report.Color {
		t.Fatalf("unexpected color: %v", cfg.Report.Color)
	}
	if cfg.Features.Cutoff == nil || *cfg.Features.Cutoff != 6 {
		t.Fatalf("unexpected cutoff: %v", cfg.Features.Cutoff)
	}
	if cfg.Report.MaxTables != nil {
		t.Fatalf("expected max-tables unset")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[report]\ntopn = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "segstat", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "segstat", "segstat.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
