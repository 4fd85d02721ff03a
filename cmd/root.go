package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tzwzx/check-all-go/internal/config"
	"github.com/tzwzx/check-all-go/internal/telemetry"
)

var (
	cfgFile      string
	verbose      bool
	cfg          *config.Config
	log          *zap.Logger
	otelShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "checkall",
	Short: "Check All - one command for every project quality gate",
	Long: `Check All runs a project's quality-gate commands — formatters,
linters, type checkers and test runners — as one orchestrated pass.

Commands are grouped into three sets: format (auto-fixes, run one at
a time), check (read-only validation) and common (heavy validators run
in both modes). Check mode runs check+common concurrently; fix mode
runs format sequentially first, then common concurrently. Every
command runs to completion even when a sibling fails, and the exit
code is 0 only when all of them succeeded.

Running checkall with no subcommand is the same as 'checkall check'.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation defaults to check mode.
		return runCheck(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that handle their own config
		if cmd.Name() == "version" || cmd.Name() == "init" || cmd.Name() == "migrate-config" {
			return nil
		}

		// Initialize logger
		log = newLogger(verbose)

		// Load configuration. No config file anywhere means the
		// built-in defaults; an explicit or discovered file that
		// fails to parse is fatal before any command runs.
		path := cfgFile
		if path == "" {
			path = config.FindConfigPath()
		}
		if path == "" {
			cfg = config.DefaultConfig()
		} else {
			var err error
			cfg, err = config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		}

		// Initialize OpenTelemetry
		var err error
		otelShutdown, err = telemetry.Init(context.Background(), &cfg.Telemetry, verbose)
		if err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			_ = log.Sync()
		}
		if otelShutdown != nil {
			return otelShutdown(context.Background())
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: search checkall.yaml, .checkall.yaml, checkall.conf, /etc/checkall.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func GetConfig() *config.Config {
	return cfg
}

func GetLogger() *zap.Logger {
	return log
}

func newLogger(verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
	logger, _ := cfg.Build()
	return logger
}
