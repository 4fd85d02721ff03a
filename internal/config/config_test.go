package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Run.Shell != "/bin/sh" {
		t.Errorf("Shell = %q, want /bin/sh", cfg.Run.Shell)
	}
	if cfg.Run.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (unlimited)", cfg.Run.Workers)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry should default to disabled")
	}
	if len(cfg.Commands.Format) == 0 {
		t.Error("default format group should not be empty")
	}
	if len(cfg.Commands.Check) == 0 {
		t.Error("default check group should not be empty")
	}
	if len(cfg.Commands.Common) == 0 {
		t.Error("default common group should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	validConfig := func() *Config {
		return DefaultConfig()
	}

	t.Run("valid config", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("all groups empty", func(t *testing.T) {
		cfg := validConfig()
		cfg.Commands.Format = nil
		cfg.Commands.Check = nil
		cfg.Commands.Common = nil
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "at least one") {
			t.Errorf("expected empty-groups error, got: %v", err)
		}
	})

	t.Run("blank command", func(t *testing.T) {
		cfg := validConfig()
		cfg.Commands.Check = []string{"true", "   "}
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "commands.check[1]") {
			t.Errorf("expected blank-command error, got: %v", err)
		}
	})

	t.Run("empty shell", func(t *testing.T) {
		cfg := validConfig()
		cfg.Run.Shell = ""
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "run.shell") {
			t.Errorf("expected run.shell error, got: %v", err)
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		cfg := validConfig()
		cfg.Run.Workers = -1
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "run.workers") {
			t.Errorf("expected run.workers error, got: %v", err)
		}
	})
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkall.yaml")

	content := `commands:
  format:
    - "prettier --write ."
  check:
    - "prettier --check ."
  common:
    - "tsc --noEmit"
    - "vitest run"
run:
  workers: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Commands.Format) != 1 || cfg.Commands.Format[0] != "prettier --write ." {
		t.Errorf("Format = %v, want [prettier --write .]", cfg.Commands.Format)
	}
	if len(cfg.Commands.Common) != 2 {
		t.Errorf("Common = %v, want 2 commands", cfg.Commands.Common)
	}
	if cfg.Commands.Common[1] != "vitest run" {
		t.Errorf("Common[1] = %q, want vitest run", cfg.Commands.Common[1])
	}
	if cfg.Run.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Run.Workers)
	}
	// Unset keys fall back to defaults
	if cfg.Run.Shell != "/bin/sh" {
		t.Errorf("Shell = %q, want default /bin/sh", cfg.Run.Shell)
	}
}

func TestLoadYAML_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkall.yaml")

	if err := os.WriteFile(path, []byte("commands: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got: %v", err)
	}
}

func TestLoadINI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkall.conf")

	content := `[format]
prettier = prettier --write .
sort = sort-package-json

[check]
prettier = prettier --check .

[common]
types = tsc --noEmit
unit = vitest run

[run]
workers = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// File order of keys must be preserved within a group.
	want := []string{"prettier --write .", "sort-package-json"}
	if len(cfg.Commands.Format) != 2 || cfg.Commands.Format[0] != want[0] || cfg.Commands.Format[1] != want[1] {
		t.Errorf("Format = %v, want %v", cfg.Commands.Format, want)
	}
	if len(cfg.Commands.Common) != 2 || cfg.Commands.Common[1] != "vitest run" {
		t.Errorf("Common = %v, want [tsc --noEmit, vitest run]", cfg.Commands.Common)
	}
	if cfg.Run.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Run.Workers)
	}
}

func TestLoadINI_InvalidWorkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkall.conf")

	if err := os.WriteFile(path, []byte("[run]\nworkers = lots\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-numeric workers")
	}
}

func TestLoadINIWithWarnings_UnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkall.conf")

	content := `[common]
unit = vitest run

[run]
retries = 3

[mystery]
x = y
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, warnings, err := LoadINIWithWarnings(path)
	if err != nil {
		t.Fatalf("LoadINIWithWarnings: %v", err)
	}
	if len(cfg.Commands.Common) != 1 {
		t.Errorf("Common = %v, want 1 command", cfg.Commands.Common)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", warnings)
	}
	if !strings.Contains(warnings[0], "retries") {
		t.Errorf("warnings[0] = %q, want mention of retries", warnings[0])
	}
	if !strings.Contains(warnings[1], "mystery") {
		t.Errorf("warnings[1] = %q, want mention of [mystery]", warnings[1])
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkall.yaml")

	content := `commands:
  common:
    - "true"
run:
  workers: 1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHECKALL_RUN_WORKERS", "8")
	t.Setenv("CHECKALL_RUN_SHELL", "/bin/bash")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Workers != 8 {
		t.Errorf("Workers = %d, want env override 8", cfg.Run.Workers)
	}
	if cfg.Run.Shell != "/bin/bash" {
		t.Errorf("Shell = %q, want env override /bin/bash", cfg.Run.Shell)
	}
}

func TestFindConfigPath_NoneExist(t *testing.T) {
	// Run from an empty directory so no project-local config is found.
	// /etc/checkall.yaml existing would make this test environment-
	// dependent, so only assert when it is absent.
	if _, err := os.Stat("/etc/checkall.yaml"); err == nil {
		t.Skip("/etc/checkall.yaml exists on this machine")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	if got := FindConfigPath(); got != "" {
		t.Errorf("FindConfigPath() = %q, want empty", got)
	}
}
