package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/ini.v1"
)

// DefaultConfigPath is the config file `checkall init` writes by default.
const DefaultConfigPath = "checkall.yaml"

// configSearchPaths lists config file paths to try, in priority order.
var configSearchPaths = []string{
	"checkall.yaml",
	".checkall.yaml",
	"checkall.conf", // legacy INI
	"/etc/checkall.yaml",
}

// FindConfigPath returns the first existing config file from the search paths.
// If none exist it returns "", and the caller falls back to built-in defaults.
func FindConfigPath() string {
	for _, path := range configSearchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Config holds all configuration for checkall
type Config struct {
	Commands  CommandsConfig  `koanf:"commands"`
	Run       RunConfig       `koanf:"run"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// CommandsConfig holds the three command groups. Each entry is a shell
// command string executed through run.shell.
type CommandsConfig struct {
	// Format commands rewrite files and run one at a time, fix mode only.
	Format []string `koanf:"format"`
	// Check commands are read-only and run concurrently, check mode only.
	Check []string `koanf:"check"`
	// Common commands run concurrently in both modes.
	Common []string `koanf:"common"`
}

// RunConfig holds execution parameters
type RunConfig struct {
	Shell   string `koanf:"shell"`
	Workers int    `koanf:"workers"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

// DefaultConfig returns a Config with default values. The default command
// groups match the web-project toolchain this tool grew out of: formatters
// in the fix group, read-only style checks in the check group, and the
// heavy validators (type checker, unused-code detector, test runners) in
// the common group.
func DefaultConfig() *Config {
	return &Config{
		Commands: CommandsConfig{
			Format: []string{
				"prettier --write .",
				"sort-package-json",
				"stylelint --fix '**/*.css'",
			},
			Check: []string{
				"prettier --check .",
				"stylelint '**/*.css'",
			},
			Common: []string{
				"tsc --noEmit",
				"next lint",
				"knip",
				"vitest run",
				"playwright test",
			},
		},
		Run: RunConfig{
			Shell:   "/bin/sh",
			Workers: 0, // unlimited
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}

// Load reads configuration from a file, auto-detecting format by extension.
// .yaml/.yml → YAML (koanf), .conf/.ini or anything else → legacy INI.
// Environment variables (CHECKALL_ prefix) always override file values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		// .conf, .ini, or no extension → legacy INI
		return loadINI(path)
	}
}

// loadYAML loads config from a YAML file with koanf.
func loadYAML(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	if err := loadEnvOverrides(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// loadINI loads config from a legacy INI file. Each command group is a
// section ([format], [check], [common]) whose values are command strings,
// kept in file order. [run] and [telemetry] hold scalar settings.
func loadINI(path string) (*Config, error) {
	cfg, warnings, err := LoadINIWithWarnings(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if err := k.Load(confmap.Provider(configToMap(cfg), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load INI values: %w", err)
	}

	if err := loadEnvOverrides(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// LoadINIWithWarnings reads a legacy INI file without env overrides or
// validation. The migrate-config command uses it to convert old configs;
// warnings report unrecognized sections and keys that were skipped.
func LoadINIWithWarnings(path string) (*Config, []string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("config file not found: %s", path)
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse INI config file: %w", err)
	}

	cfg := DefaultConfig()
	var warnings []string

	for _, section := range iniFile.Sections() {
		name := strings.ToLower(section.Name())
		switch name {
		case "format", "check", "common":
			// Key names are labels only; values are the commands,
			// in file order.
			var cmds []string
			for _, key := range section.Keys() {
				cmds = append(cmds, key.Value())
			}
			switch name {
			case "format":
				cfg.Commands.Format = cmds
			case "check":
				cfg.Commands.Check = cmds
			case "common":
				cfg.Commands.Common = cmds
			}
		case "run":
			for _, key := range section.Keys() {
				switch strings.ToLower(key.Name()) {
				case "shell":
					cfg.Run.Shell = key.Value()
				case "workers", "jobs": // "jobs" is the pre-1.0 key name
					n, err := key.Int()
					if err != nil {
						return nil, nil, fmt.Errorf("invalid [run] %s value %q: %w", key.Name(), key.Value(), err)
					}
					cfg.Run.Workers = n
				default:
					warnings = append(warnings, fmt.Sprintf("unrecognized INI key [run] %s (skipped)", key.Name()))
				}
			}
		case "telemetry":
			for _, key := range section.Keys() {
				switch strings.ToLower(key.Name()) {
				case "enabled":
					b, err := key.Bool()
					if err != nil {
						return nil, nil, fmt.Errorf("invalid [telemetry] enabled value %q: %w", key.Value(), err)
					}
					cfg.Telemetry.Enabled = b
				case "otlp_endpoint", "otlpendpoint":
					cfg.Telemetry.OTLPEndpoint = key.Value()
				default:
					warnings = append(warnings, fmt.Sprintf("unrecognized INI key [telemetry] %s (skipped)", key.Name()))
				}
			}
		case strings.ToLower(ini.DefaultSection):
			for _, key := range section.Keys() {
				warnings = append(warnings, fmt.Sprintf("unrecognized top-level INI key %s (skipped)", key.Name()))
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unrecognized INI section [%s] (skipped)", section.Name()))
		}
	}

	return cfg, warnings, nil
}

// --- helpers ---

// configToMap flattens a Config into the koanf key namespace.
func configToMap(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"commands.format":         cfg.Commands.Format,
		"commands.check":          cfg.Commands.Check,
		"commands.common":         cfg.Commands.Common,
		"run.shell":               cfg.Run.Shell,
		"run.workers":             cfg.Run.Workers,
		"telemetry.enabled":       cfg.Telemetry.Enabled,
		"telemetry.otlp_endpoint": cfg.Telemetry.OTLPEndpoint,
	}
}

func loadDefaults(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(configToMap(DefaultConfig()), "."), nil)
}

func loadEnvOverrides(k *koanf.Koanf) error {
	// CHECKALL_RUN_SHELL → run.shell. Only scalar keys are practical
	// through env vars; command lists come from the file.
	return k.Load(env.Provider("CHECKALL_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CHECKALL_")
		s = strings.ToLower(s)
		if idx := strings.Index(s, "_"); idx >= 0 {
			return s[:idx] + "." + s[idx+1:]
		}
		return s
	}), nil)
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the command groups and run settings are usable.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Commands.Format)+len(c.Commands.Check)+len(c.Commands.Common) == 0 {
		errs = append(errs, fmt.Errorf("at least one of commands.format, commands.check, commands.common must be non-empty"))
	}
	errs = append(errs, validateGroup("commands.format", c.Commands.Format)...)
	errs = append(errs, validateGroup("commands.check", c.Commands.Check)...)
	errs = append(errs, validateGroup("commands.common", c.Commands.Common)...)

	if strings.TrimSpace(c.Run.Shell) == "" {
		errs = append(errs, fmt.Errorf("run.shell must not be empty"))
	}
	if c.Run.Workers < 0 {
		errs = append(errs, fmt.Errorf("run.workers must be >= 0, got %d", c.Run.Workers))
	}

	return errors.Join(errs...)
}

// validateGroup rejects blank command strings; everything else is the
// shell's problem at execution time.
func validateGroup(name string, cmds []string) []error {
	var errs []error
	for i, cmd := range cmds {
		if strings.TrimSpace(cmd) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is blank", name, i))
		}
	}
	return errs
}
