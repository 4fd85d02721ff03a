package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/tzwzx/check-all-go/internal/config"
	"github.com/tzwzx/check-all-go/internal/telemetry"
)

// Runner orchestrates the configured command groups. Check mode runs the
// check and common groups concurrently; fix mode runs the format group one
// command at a time and then the common group concurrently. In both modes
// every command runs to completion regardless of sibling failures.
type Runner struct {
	cfg      *config.Config
	log      *zap.Logger
	executor *Executor

	// out receives each command's relayed output. Guarded by mu so
	// concurrently finishing commands don't interleave their blocks.
	out io.Writer
	mu  sync.Mutex
}

// New creates a new runner writing command output to stdout.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		executor: NewExecutor(cfg, log),
		out:      os.Stdout,
	}
}

// SetOutput redirects relayed command output, for tests.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// Check runs the check and common groups concurrently.
func (r *Runner) Check(ctx context.Context) (*RunResults, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "Runner.Check")
	defer span.End()

	start := time.Now()
	results := &RunResults{}

	r.runParallel(ctx, results, map[string][]string{
		GroupCheck:  r.cfg.Commands.Check,
		GroupCommon: r.cfg.Commands.Common,
	})

	results.Elapsed = time.Since(start)
	span.SetAttributes(
		attribute.Int("commands.successful", results.Successful),
		attribute.Int("commands.failed", results.Failed),
	)

	return results, nil
}

// Fix runs the format group sequentially, then the common group
// concurrently. A format command failing never stops the ones after it.
func (r *Runner) Fix(ctx context.Context) (*RunResults, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "Runner.Fix")
	defer span.End()

	start := time.Now()
	results := &RunResults{}

	r.runSequential(ctx, results, GroupFormat, r.cfg.Commands.Format)
	r.runParallel(ctx, results, map[string][]string{
		GroupCommon: r.cfg.Commands.Common,
	})

	results.Elapsed = time.Since(start)
	span.SetAttributes(
		attribute.Int("commands.successful", results.Successful),
		attribute.Int("commands.failed", results.Failed),
	)

	return results, nil
}

// runSequential executes one group in list order, one command at a time,
// collecting failures and continuing past them.
func (r *Runner) runSequential(ctx context.Context, results *RunResults, group string, commands []string) {
	ctx, span := telemetry.Tracer().Start(ctx, "Runner.runSequential")
	defer span.End()
	span.SetAttributes(
		attribute.String("group", group),
		attribute.Int("commands", len(commands)),
	)

	for _, command := range commands {
		res := r.runCommand(ctx, group, command)
		r.report(res)
		results.add(res)
	}
}

// runParallel launches every command in the given groups concurrently and
// waits for all of them. run.workers caps concurrency when set; 0 means
// every command starts at once. No early cancellation on first failure —
// every sibling runs to completion.
func (r *Runner) runParallel(ctx context.Context, results *RunResults, groups map[string][]string) {
	ctx, span := telemetry.Tracer().Start(ctx, "Runner.runParallel")
	defer span.End()

	total := 0
	for _, commands := range groups {
		total += len(commands)
	}
	span.SetAttributes(attribute.Int("commands", total))

	var wg sync.WaitGroup
	var mu sync.Mutex

	var semaphore chan struct{}
	if workers := r.cfg.Run.Workers; workers > 0 {
		semaphore = make(chan struct{}, workers)
	}

	for group, commands := range groups {
		for _, command := range commands {
			wg.Add(1)
			go func(group, command string) {
				defer wg.Done()
				if semaphore != nil {
					semaphore <- struct{}{}        // Acquire
					defer func() { <-semaphore }() // Release
				}

				res := r.runCommand(ctx, group, command)
				r.report(res)

				mu.Lock()
				results.add(res)
				mu.Unlock()
			}(group, command)
		}
	}

	wg.Wait()
}

// runCommand executes a single command and wraps the outcome.
func (r *Runner) runCommand(ctx context.Context, group, command string) CommandResult {
	ctx, span := telemetry.Tracer().Start(ctx, "Runner.runCommand")
	defer span.End()

	start := time.Now()
	output, err := r.executor.Run(ctx, command)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("command.line", command),
		attribute.String("command.group", group),
		attribute.Bool("command.success", err == nil),
	)

	if err != nil {
		r.log.Error("Command failed",
			zap.String("command", command),
			zap.String("group", group),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		r.log.Info("Command succeeded",
			zap.String("command", command),
			zap.String("group", group),
			zap.Duration("duration", duration),
		)
	}

	return CommandResult{
		Command:  command,
		Group:    group,
		Output:   output,
		Duration: duration,
		Err:      err,
	}
}

// report relays one command's captured output verbatim. Failing commands
// get a marker line naming the command first. Buffering until completion
// keeps parallel output readable.
func (r *Runner) report(res CommandResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !res.Success() {
		fmt.Fprintf(r.out, "FAIL %s\n", res.Command)
	}
	if res.Output != "" {
		io.WriteString(r.out, res.Output) //nolint:errcheck
		if res.Output[len(res.Output)-1] != '\n' {
			io.WriteString(r.out, "\n") //nolint:errcheck
		}
	}
}
