package processing

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/systemstart/testrun/pkg/steps"
)

// GenericFailureStatus is the exit status for failures that carry no exit code.
const GenericFailureStatus = -1

// StepFailure is the fatal error of a run: the first step that failed.
type StepFailure struct {
	Step string
	Kind steps.Kind
	Err  error
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepFailure) Unwrap() error { return e.Err }

// Handler receives the result of every step and decides whether the run goes on.
type Handler struct {
	Logger *slog.Logger
}

// Complete returns nil to continue the run, or the *StepFailure that ends it.
func (h *Handler) Complete(step steps.Step, res steps.Result) error {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if res.OK() {
		logger.Debug("step succeeded", "step", step.Name(), "kind", step.Kind())
		return nil
	}

	failure := &StepFailure{Step: step.Name(), Kind: step.Kind(), Err: res.Err}
	logger.Error("step exited abnormally", "step", step.Name(), "kind", step.Kind(), "error", res.Err, "status", ExitStatus(failure))
	return failure
}

// ExitStatus maps a run error to a process exit status: 0 for nil, the exit
// code of a failed process, or GenericFailureStatus otherwise.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *steps.ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return GenericFailureStatus
}
