package processing

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/systemstart/testrun/pkg/steps"
)

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "process exit code", err: &steps.ExitCodeError{Command: "mocha", Code: 3}, want: 3},
		{
			name: "wrapped exit code",
			err:  &StepFailure{Step: "verify", Err: fmt.Errorf("wrapped: %w", &steps.ExitCodeError{Code: 42})},
			want: 42,
		},
		{name: "opaque error", err: &StepFailure{Step: "convert", Err: errors.New("read failed")}, want: GenericFailureStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitStatus(tt.err); got != tt.want {
				t.Errorf("ExitStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandler_Complete(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	step := &steps.ProcessStep{Label: "cli --disable-async ./test/async.es5.js"}

	if err := h.Complete(step, steps.Ok()); err != nil {
		t.Fatalf("expected continue on success, got %v", err)
	}

	cause := &steps.ExitCodeError{Command: "./bin/regenerator", Code: 2}
	err := h.Complete(step, steps.Fail(cause))

	var failure *StepFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *StepFailure, got %T", err)
	}
	if failure.Step != step.Label || failure.Kind != steps.KindProcess {
		t.Errorf("unexpected failure %+v", failure)
	}
	if !errors.Is(err, cause) {
		t.Error("failure must wrap the step's error")
	}
	if !strings.Contains(buf.String(), "step exited abnormally") || !strings.Contains(buf.String(), "status=2") {
		t.Errorf("expected diagnostic log, got %q", buf.String())
	}
}
