package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tzwzx/check-all-go/internal/runner"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Run formatters, then the validation commands",
	Long: `Run the format command group one command at a time, then the
common group concurrently.

Format commands rewrite files in place (code formatter, package
manifest sorter, style auto-fixes). A failing format command never
stops the ones after it; all failures are collected and reported at
the end, and the exit code is non-zero if anything failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := GetLogger()
		cfg := GetConfig()

		log.Info("Running fixes...",
			zap.Int("format", len(cfg.Commands.Format)),
			zap.Int("common", len(cfg.Commands.Common)),
		)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r, err := initRunner(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize runner: %w", err)
		}

		results, err := r.Fix(ctx)
		if err != nil {
			return fmt.Errorf("fix run failed: %w", err)
		}

		runner.PrintSummary(os.Stdout, results)

		if results.Failed > 0 {
			return fmt.Errorf("%d of %d commands failed", results.Failed, results.Failed+results.Successful)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
