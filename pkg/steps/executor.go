package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Executor performs one step at a time and reports exactly one Result per step.
type Executor struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor creates an executor wired to the orchestrator's own standard streams.
func NewExecutor(dir string) *Executor {
	return &Executor{
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Execute runs step and blocks until it completes.
func (e *Executor) Execute(ctx context.Context, step Step) Result {
	switch s := step.(type) {
	case *FunctionStep:
		return e.runFunction(ctx, s)
	case *ProcessStep:
		return e.runProcess(ctx, s)
	default:
		return Fail(fmt.Errorf("unsupported step type %T", step))
	}
}

func (e *Executor) runFunction(ctx context.Context, s *FunctionStep) Result {
	if s.Op == nil {
		return Fail(fmt.Errorf("step %q has no operation", s.Label))
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("operation panicked: %v", r)
			}
		}()
		done <- s.Op(ctx, s.Args)
	}()

	if err := <-done; err != nil {
		return Fail(err)
	}
	return Ok()
}

func (e *Executor) runProcess(ctx context.Context, s *ProcessStep) Result {
	slog.Debug("spawning process", "step", s.Label, "command", s.Command, "args", strings.Join(s.Args, " "), "quiet", s.Quiet)

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stderr = e.Stderr
	if s.Quiet || e.Stdout == nil {
		cmd.Stdout = io.Discard
	} else {
		cmd.Stdout = e.Stdout
	}

	err := cmd.Run()
	if err == nil {
		return Ok()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return Fail(&ExitCodeError{Command: s.Command, Code: exitErr.ExitCode()})
	}
	return Fail(fmt.Errorf("running %s: %w", s.Command, err))
}
