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

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run all validation commands (read-only)",
	Long: `Run the check and common command groups concurrently.

No files are modified. Every command runs to completion even when a
sibling fails; the exit code is non-zero if any command failed.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	cfg := GetConfig()

	log.Info("Running checks...",
		zap.Int("check", len(cfg.Commands.Check)),
		zap.Int("common", len(cfg.Commands.Common)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := initRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize runner: %w", err)
	}

	results, err := r.Check(ctx)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	runner.PrintSummary(os.Stdout, results)

	if results.Failed > 0 {
		return fmt.Errorf("%d of %d commands failed", results.Failed, results.Failed+results.Successful)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
