package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/command"
)

type InvokerConfig struct {
	Runtime string // container CLI; if empty -> "docker"
	Image   string
	Timeout time.Duration // per invocation; if zero -> 60s
}

// ContainerInvoker runs the model image once per prompt in a throwaway
// container with networking disabled.
type ContainerInvoker struct {
	cfg    InvokerConfig
	runner command.Runner
	log    *slog.Logger
}

func NewContainerInvoker(cfg InvokerConfig, runner command.Runner, logger *slog.Logger) *ContainerInvoker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Runtime == "" {
		cfg.Runtime = constants.DefaultModelRuntime
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultModelTimeout
	}
	if runner == nil {
		runner = command.NewExecRunner(logger)
	}
	return &ContainerInvoker{cfg: cfg, runner: runner, log: logger}
}

// Args returns the runtime arguments for prompt. "--network none" is always
// present; there is no way to configure it away.
func (c *ContainerInvoker) Args(prompt string) []string {
	return []string{
		"run", "--rm", "-i",
		"--network", "none",
		c.cfg.Image,
		"--prompt", prompt,
	}
}

// Invoke sends prompt to the model and returns its stdout. Failures (timeout,
// exit status, spawn error) are logged and reported in Outcome.Err with an
// empty Output.
func (c *ContainerInvoker) Invoke(ctx context.Context, prompt string) (out Outcome) {
	out.RequestID = uuid.New().String()
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			out.Output = ""
			out.Err = fmt.Errorf("model invocation panicked: %v", rec)
			c.log.Error("llm.invoke.error", "req_id", out.RequestID, "error", out.Err)
		}
		out.Duration = time.Since(start)
	}()

	c.log.Debug("llm.invoke.start",
		"req_id", out.RequestID,
		"runtime", c.cfg.Runtime,
		"image", c.cfg.Image,
		"prompt_len", len(prompt),
		"timeout", c.cfg.Timeout.String(),
	)

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	stdout, stderr, err := c.runner.Run(runCtx, []byte(prompt), c.cfg.Runtime, c.Args(prompt)...)
	if err != nil {
		out.Err = fmt.Errorf("invoke %s: %w", c.cfg.Image, err)
		c.log.Error("llm.invoke.error",
			"req_id", out.RequestID,
			"image", c.cfg.Image,
			"error", err,
			"stderr", command.Truncate(string(stderr), 8<<10),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return out
	}

	out.Output = strings.TrimSpace(string(stdout))
	c.log.Info("llm.invoke.ok",
		"req_id", out.RequestID,
		"output_bytes", len(out.Output),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}
