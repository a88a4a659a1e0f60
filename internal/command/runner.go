package command

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec. The child is killed when ctx ends and
// its pipes are given WaitDelay to drain before Run returns.
type ExecRunner struct {
	Logger    *slog.Logger
	WaitDelay time.Duration
}

func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{Logger: logger, WaitDelay: 5 * time.Second}
}

func (r *ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = r.WaitDelay
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)
	if err != nil && ctx.Err() != nil {
		// report the deadline rather than "signal: killed"
		err = &TimeoutError{Name: name, After: dur, Cause: ctx.Err()}
	}

	if err != nil {
		logger.Error("exec failed",
			"cmd", name,
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", Truncate(errb.String(), 8<<10), // cap at 8KB
		)
	} else {
		logger.Debug("exec ok",
			"cmd", name,
			"args", Truncate(strings.Join(args, " "), 256),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
			"stderr_bytes", errb.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

// TimeoutError reports a command stopped because its context ended.
type TimeoutError struct {
	Name  string
	After time.Duration
	Cause error
}

func (e *TimeoutError) Error() string {
	return e.Name + ": stopped after " + e.After.Round(time.Millisecond).String() + ": " + e.Cause.Error()
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// Truncate caps s at max bytes, marking the cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
