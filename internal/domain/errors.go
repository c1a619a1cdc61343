package domain

import (
	"fmt"
	"strings"
	"time"
)

// SpawnError means the tool executable could not be started.
type SpawnError struct {
	Tool    string
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: cannot run %s: %v", e.Tool, e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ToolExitError means the tool exited with a status outside the range it
// documents for "no issues" and "issues found".
type ToolExitError struct {
	Tool     string
	ExitCode int
	Result   ExecutionResult
}

func (e *ToolExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if line := firstLine(e.Result.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// ToolOutputError means the tool output did not have the expected shape.
type ToolOutputError struct {
	Tool   string
	Result ExecutionResult
	Err    error
}

func (e *ToolOutputError) Error() string {
	return fmt.Sprintf("%s: unexpected output: %v", e.Tool, e.Err)
}

func (e *ToolOutputError) Unwrap() error { return e.Err }

// TimeoutError means the tool was killed after running too long.
type TimeoutError struct {
	Tool  string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Tool, e.After)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
