package steps

import (
	"context"
	"fmt"
)

// Kind distinguishes in-process steps from external process steps.
type Kind string

const (
	KindFunction Kind = "function"
	KindProcess  Kind = "process"
)

// Step is a single unit of queued work. Implementations are FunctionStep and ProcessStep.
type Step interface {
	Name() string
	Kind() Kind
}

// Operation is in-process work invoked with the step's bound arguments.
// Returning nil signals success.
type Operation func(ctx context.Context, args []string) error

// FunctionStep runs an Operation inside the orchestrator.
type FunctionStep struct {
	Label string
	Op    Operation
	Args  []string
}

// Name returns the step label.
func (s *FunctionStep) Name() string { return s.Label }

// Kind returns KindFunction.
func (s *FunctionStep) Kind() Kind { return KindFunction }

// ProcessStep spawns an external command. Quiet discards its stdout.
type ProcessStep struct {
	Label   string
	Command string
	Args    []string
	Quiet   bool
}

// Name returns the step label.
func (s *ProcessStep) Name() string { return s.Label }

// Kind returns KindProcess.
func (s *ProcessStep) Kind() Kind { return KindProcess }

// Result is the completion of exactly one step: Ok when Err is nil.
type Result struct {
	Err error
}

func Ok() Result { return Result{} }

func Fail(err error) Result { return Result{Err: err} }

func (r Result) OK() bool { return r.Err == nil }

// ExitCodeError reports a process that exited with a nonzero status.
type ExitCodeError struct {
	Command string
	Code    int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}
