package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tzwzx/check-all-go/internal/config"
)

var (
	migrateOutput string
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-config [legacy-config]",
	Short: "Convert a legacy INI config to YAML",
	Long: `Read a legacy INI config file (checkall.conf) and write the
equivalent YAML config. With no argument the INI file is searched for
in the usual locations. The YAML is printed to stdout unless --output
is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else if cfgFile != "" {
			path = cfgFile
		} else {
			path = "checkall.conf"
		}

		cfg, warnings, err := config.LoadINIWithWarnings(path)
		if err != nil {
			return fmt.Errorf("failed to read legacy config: %w", err)
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
		}

		out, err := renderYAML(cfg)
		if err != nil {
			return fmt.Errorf("failed to render YAML: %w", err)
		}

		if migrateOutput == "" {
			fmt.Print(string(out))
			return nil
		}

		if _, err := os.Stat(migrateOutput); err == nil && !migrateForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", migrateOutput)
		}
		if err := os.WriteFile(migrateOutput, out, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", migrateOutput, err)
		}

		fmt.Fprintf(os.Stderr, "Wrote %s. Remove %s once you have verified it.\n", migrateOutput, path)
		return nil
	},
}

// renderYAML renders a Config as a YAML config file. Command groups are
// always written out in full; run and telemetry settings are written only
// when they differ from the defaults, keeping migrated files minimal.
func renderYAML(cfg *config.Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	defaults := config.DefaultConfig()
	var b strings.Builder

	b.WriteString("commands:\n")
	writeYAMLList(&b, "format", cfg.Commands.Format)
	writeYAMLList(&b, "check", cfg.Commands.Check)
	writeYAMLList(&b, "common", cfg.Commands.Common)

	if cfg.Run.Shell != defaults.Run.Shell || cfg.Run.Workers != defaults.Run.Workers {
		b.WriteString("run:\n")
		if cfg.Run.Shell != defaults.Run.Shell {
			fmt.Fprintf(&b, "  shell: %s\n", yamlQuote(cfg.Run.Shell))
		}
		if cfg.Run.Workers != defaults.Run.Workers {
			fmt.Fprintf(&b, "  workers: %d\n", cfg.Run.Workers)
		}
	}

	if cfg.Telemetry.Enabled || cfg.Telemetry.OTLPEndpoint != "" {
		b.WriteString("telemetry:\n")
		fmt.Fprintf(&b, "  enabled: %t\n", cfg.Telemetry.Enabled)
		if cfg.Telemetry.OTLPEndpoint != "" {
			fmt.Fprintf(&b, "  otlp_endpoint: %s\n", yamlQuote(cfg.Telemetry.OTLPEndpoint))
		}
	}

	return []byte(b.String()), nil
}

func writeYAMLList(b *strings.Builder, name string, commands []string) {
	fmt.Fprintf(b, "  %s:\n", name)
	if len(commands) == 0 {
		// Re-render as an explicit empty list so the group stays visible.
		b.WriteString("    []\n")
		return
	}
	for _, command := range commands {
		fmt.Fprintf(b, "    - %s\n", yamlQuote(command))
	}
}

// yamlQuote quotes a scalar when plain YAML would mangle it.
func yamlQuote(s string) string {
	if s == "" {
		return `""`
	}
	needsQuote := strings.ContainsAny(s, `:#"`) ||
		strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") ||
		strings.HasPrefix(s, "'") || strings.HasPrefix(s, "*") ||
		strings.HasPrefix(s, "- ")
	if !needsQuote {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "write YAML to this file instead of stdout")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite the output file if it exists")

	rootCmd.AddCommand(migrateCmd)
}
