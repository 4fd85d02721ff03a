package runner

import (
	"errors"
	"fmt"
	"time"
)

// Group names commands by scheduling policy.
const (
	GroupFormat = "format"
	GroupCheck  = "check"
	GroupCommon = "common"
)

// CommandResult is the outcome of one command invocation.
type CommandResult struct {
	Command  string
	Group    string
	Output   string
	Duration time.Duration
	Err      error
}

// Success reports whether the command exited zero.
func (r CommandResult) Success() bool {
	return r.Err == nil
}

// RunResults aggregates the outcome of one check or fix pass.
type RunResults struct {
	Results    []CommandResult
	Successful int
	Failed     int
	Elapsed    time.Duration
}

// add records a result and updates the counters. Callers synchronise access.
func (r *RunResults) add(res CommandResult) {
	r.Results = append(r.Results, res)
	if res.Success() {
		r.Successful++
	} else {
		r.Failed++
	}
}

// FailedCommands returns the command strings that failed, in completion order.
func (r *RunResults) FailedCommands() []string {
	var failed []string
	for _, res := range r.Results {
		if !res.Success() {
			failed = append(failed, res.Command)
		}
	}
	return failed
}

// Err joins every per-command error into one aggregate error, or returns nil
// when all commands succeeded.
func (r *RunResults) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Command, res.Err))
		}
	}
	return errors.Join(errs...)
}
