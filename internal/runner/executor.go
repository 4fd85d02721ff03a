package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/tzwzx/check-all-go/internal/config"
)

// Executor runs command strings through the configured shell.
type Executor struct {
	cfg *config.Config
	log *zap.Logger
}

// NewExecutor creates a new executor
func NewExecutor(cfg *config.Config, log *zap.Logger) *Executor {
	return &Executor{
		cfg: cfg,
		log: log,
	}
}

// Run executes one command string and returns its combined stdout/stderr.
// The output is returned even when the command fails so callers can relay
// it. There is no per-command timeout; a cancelled ctx kills the child.
func (e *Executor) Run(ctx context.Context, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("command is blank")
	}

	shell := e.cfg.Run.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	e.log.Debug("Executing command",
		zap.String("shell", shell),
		zap.String("command", command),
	)

	cmd := exec.CommandContext(ctx, shell, "-c", command) //nolint:gosec // G204: command strings come from the operator's own config file

	// One buffer for both streams keeps the command's own interleaving.
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return output.String(), fmt.Errorf("command failed: %w", err)
	}

	return output.String(), nil
}
