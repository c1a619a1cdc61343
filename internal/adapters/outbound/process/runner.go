package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rubylint/rubylint/internal/domain"
)

// DefaultWaitDelay bounds how long output pipes are drained after the
// process is killed.
const DefaultWaitDelay = 2 * time.Second

// Runner implements domain.ProcessRunner with os/exec.
type Runner struct {
	WaitDelay time.Duration
}

func New() *Runner {
	return &Runner{WaitDelay: DefaultWaitDelay}
}

// Execute runs req to completion. Exit status, start failures and
// deadline expiry are reported in the result, never as an error.
func (r *Runner) Execute(ctx context.Context, req domain.ExecutionRequest) domain.ExecutionResult {
	start := time.Now()

	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.WaitDelay = r.WaitDelay
	if req.Stdin != nil {
		cmd.Stdin = strings.NewReader(*req.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := domain.ExecutionResult{}
	if err := cmd.Start(); err != nil {
		res.SpawnErr = err
		res.ExitCode = -1
		res.Elapsed = time.Since(start)
		return res
	}

	err := cmd.Wait()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	res.Elapsed = time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = -1
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		// I/O failure copying stdin or output; treat as abnormal exit.
		res.ExitCode = -1
		if res.Stderr == "" {
			res.Stderr = err.Error()
		}
	}
	return res
}
