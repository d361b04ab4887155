package research

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// maxOutputBytes caps how much agent output is kept in a Result.
const maxOutputBytes = 64 * 1024

// Result is the outcome of one research attempt.
type Result struct {
	Succeeded bool
	Text      string
	// Draft marks Text as a markdown section the loop must append to the
	// gap's document, for runners that cannot edit files themselves.
	Draft bool
}

// Runner performs one research task. An error means the attempt could not
// be carried out at all (spawn failure, timeout, API error); a completed
// attempt that the agent itself reports as failed returns Succeeded false.
type Runner interface {
	Run(ctx context.Context, prompt string, timeout time.Duration) (Result, error)
}

// CommandRunner runs an agent CLI with the prompt as its last argument.
type CommandRunner struct {
	command string
	args    []string
	dir     string
}

// NewCommandRunner creates a runner for command. args come before the
// prompt and dir is the working directory of the agent.
func NewCommandRunner(command string, args []string, dir string) *CommandRunner {
	return &CommandRunner{
		command: command,
		args:    args,
		dir:     dir,
	}
}

// Run starts the agent and waits for it to exit. The process is killed when
// timeout elapses or ctx is cancelled.
func (r *CommandRunner) Run(ctx context.Context, prompt string, timeout time.Duration) (Result, error) {
	if prompt == "" {
		return Result{}, fmt.Errorf("prompt is required")
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.args...), prompt)
	cmd := exec.CommandContext(runCtx, r.command, args...)
	cmd.Dir = r.dir
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Result{Text: tail(stdout.String())}, fmt.Errorf("agent timed out after %v", timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			text := stdout.String()
			if text == "" {
				text = stderr.String()
			}
			return Result{Succeeded: false, Text: tail(text)}, nil
		}
		return Result{}, fmt.Errorf("run %s: %w", r.command, err)
	}

	return Result{Succeeded: true, Text: tail(stdout.String())}, nil
}

// tail keeps the last maxOutputBytes of s.
func tail(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[len(s)-maxOutputBytes:]
}
