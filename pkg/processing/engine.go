package processing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/systemstart/testrun/pkg/plan"
	"github.com/systemstart/testrun/pkg/steps"
)

// StepExecutor performs a single step. *steps.Executor is the real one.
type StepExecutor interface {
	Execute(ctx context.Context, step steps.Step) steps.Result
}

// Observer is notified around every executed step.
type Observer interface {
	StepStarted(step steps.Step)
	StepFinished(step steps.Step, res steps.Result, elapsed time.Duration)
}

// Runner drains a queue one step at a time.
type Runner struct {
	Executor StepExecutor
	Handler  *Handler
	Observer Observer
	Logger   *slog.Logger
}

// Run executes the queued steps in order and stops at the first failure,
// which is returned as a *StepFailure. Steps after it never run.
func (r *Runner) Run(ctx context.Context, q *Queue) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler := r.Handler
	if handler == nil {
		handler = &Handler{Logger: logger}
	}

	total := q.Len()
	for i := 1; ; i++ {
		step, ok := q.Dequeue()
		if !ok {
			logger.Info("all steps succeeded", "steps", total)
			return nil
		}

		logger.Info("running step", "step", step.Name(), "kind", step.Kind(), "index", i, "total", total)
		if r.Observer != nil {
			r.Observer.StepStarted(step)
		}

		start := time.Now()
		res := r.Executor.Execute(ctx, step)
		if r.Observer != nil {
			r.Observer.StepFinished(step, res, time.Since(start))
		}

		if err := handler.Complete(step, res); err != nil {
			return err
		}

		// Let pending I/O and other goroutines run before the next step.
		runtime.Gosched()
	}
}

// Assemble writes the plan's placeholder artifacts and builds the queue.
// Placeholders exist before Assemble returns, so no queued step can observe
// them missing.
func Assemble(p *plan.Plan, f *steps.Factory) (*Queue, error) {
	for _, s := range p.Skipped {
		if s.MissingDependency {
			slog.Warn("optional dependency missing", "step", s.Name, "reason", s.Reason)
		} else {
			slog.Info("step skipped", "step", s.Name, "reason", s.Reason)
		}
	}

	for _, placeholder := range p.Placeholders {
		if err := writePlaceholder(f.WorkDir, placeholder); err != nil {
			return nil, err
		}
	}

	q := NewQueue()
	for _, spec := range p.Steps {
		step, err := f.NewStep(spec)
		if err != nil {
			return nil, fmt.Errorf("creating step: %w", err)
		}
		q.Enqueue(step)
	}

	slog.Info("assembled queue", "runtime", p.Runtime, "steps", q.Len(), "skipped", len(p.Skipped), "placeholders", len(p.Placeholders))
	return q, nil
}

func writePlaceholder(workDir, name string) error {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("creating directory for placeholder %s: %w", name, err)
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		return fmt.Errorf("writing placeholder %s: %w", name, err)
	}
	slog.Debug("wrote placeholder", "path", p)
	return nil
}
