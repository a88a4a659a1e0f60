package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecRunnerStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	r := NewExecRunner(quietLogger())

	out, _, err := r.Run(context.Background(), []byte("hello prompt"), "cat")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if string(out) != "hello prompt" {
		t.Errorf("stdout = %q", out)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner(quietLogger())

	_, _, err := r.Run(context.Background(), nil, "definitely-not-a-real-binary-xyz")
	if err == nil {
		t.Fatal("expected spawn error")
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	r := NewExecRunner(quietLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := r.Run(ctx, nil, "sleep", "5")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *TimeoutError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error should wrap context.DeadlineExceeded")
	}
	if time.Since(start) > 4*time.Second {
		t.Errorf("runner did not stop the child promptly")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
	got := Truncate(strings.Repeat("x", 20), 5)
	if got != "xxxxx...(truncated)" {
		t.Errorf("Truncate long = %q", got)
	}
}
