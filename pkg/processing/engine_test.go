package processing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/systemstart/testrun/pkg/api"
	"github.com/systemstart/testrun/pkg/plan"
	"github.com/systemstart/testrun/pkg/steps"
)

// recordingExecutor completes steps from a script and records execution order.
type recordingExecutor struct {
	executed []string
	fail     map[string]error
}

func (e *recordingExecutor) Execute(_ context.Context, step steps.Step) steps.Result {
	e.executed = append(e.executed, step.Name())
	if err, ok := e.fail[step.Name()]; ok {
		return steps.Fail(err)
	}
	return steps.Ok()
}

type recordingObserver struct {
	started, finished []string
}

func (o *recordingObserver) StepStarted(step steps.Step) { o.started = append(o.started, step.Name()) }
func (o *recordingObserver) StepFinished(step steps.Step, _ steps.Result, _ time.Duration) {
	o.finished = append(o.finished, step.Name())
}

func stepNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("step-%d", i+1)
	}
	return out
}

func queueOf(names []string) *Queue {
	q := NewQueue()
	for i, n := range names {
		if i%2 == 0 {
			q.Enqueue(&steps.ProcessStep{Label: n})
		} else {
			q.Enqueue(&steps.FunctionStep{Label: n})
		}
	}
	return q
}

func TestRunner_AllSucceed(t *testing.T) {
	names := stepNames(6)
	exec := &recordingExecutor{}
	obs := &recordingObserver{}

	err := (&Runner{Executor: exec, Observer: obs}).Run(context.Background(), queueOf(names))
	require.NoError(t, err)
	require.Equal(t, names, exec.executed)
	require.Equal(t, names, obs.started)
	require.Equal(t, names, obs.finished)
}

func TestRunner_FailFast(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for k := 1; k <= n; k++ {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				names := stepNames(n)
				cause := &steps.ExitCodeError{Command: "x", Code: k}
				exec := &recordingExecutor{fail: map[string]error{names[k-1]: cause}}
				q := queueOf(names)

				err := (&Runner{Executor: exec}).Run(context.Background(), q)

				var failure *StepFailure
				require.ErrorAs(t, err, &failure)
				require.Equal(t, names[k-1], failure.Step)
				require.Equal(t, names[:k], exec.executed, "steps after the failure must never run")
				require.Equal(t, n-k, q.Len())
				require.Equal(t, k, ExitStatus(err))
			})
		}
	}
}

func TestRunner_LongQueue(t *testing.T) {
	names := stepNames(20000)
	exec := &recordingExecutor{}

	require.NoError(t, (&Runner{Executor: exec}).Run(context.Background(), queueOf(names)))
	require.Len(t, exec.executed, len(names))
	require.Equal(t, names[len(names)-1], exec.executed[len(exec.executed)-1])
}

func TestRunner_OrderWithRealExecutor(t *testing.T) {
	var trace []string
	record := func(label string) steps.Operation {
		return func(context.Context, []string) error {
			trace = append(trace, label)
			return nil
		}
	}

	q := NewQueue(
		&steps.FunctionStep{Label: "a", Op: record("a")},
		&steps.FunctionStep{Label: "b", Op: record("b")},
		&steps.FunctionStep{Label: "c", Op: func(context.Context, []string) error { return errors.New("stop") }},
		&steps.FunctionStep{Label: "d", Op: record("d")},
	)

	err := (&Runner{Executor: &steps.Executor{}}).Run(context.Background(), q)
	require.Error(t, err)
	require.Equal(t, GenericFailureStatus, ExitStatus(err))
	require.Equal(t, []string{"a", "b"}, trace)
}

func TestAssemble_WritesPlaceholders(t *testing.T) {
	dir := t.TempDir()
	p := &plan.Plan{
		Steps: []api.StepSpec{
			{Name: "verify", Kind: api.StepKindProcess, Command: "mocha"},
		},
		Placeholders: []string{"./test/tests-node4.es5.js"},
	}
	f := &steps.Factory{WorkDir: dir}

	q, err := Assemble(p, f)
	require.NoError(t, err)
	require.Equal(t, 1, q.Len())

	content, err := os.ReadFile(filepath.Join(dir, "test", "tests-node4.es5.js"))
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestAssemble_PlaceholderOverwritesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "out.es5.js")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	_, err := Assemble(&plan.Plan{Placeholders: []string{"out.es5.js"}}, &steps.Factory{WorkDir: dir})
	require.NoError(t, err)

	content, err := os.ReadFile(stale)
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestAssemble_BadSpec(t *testing.T) {
	p := &plan.Plan{Steps: []api.StepSpec{{Name: "bad", Kind: "thread"}}}
	_, err := Assemble(p, &steps.Factory{WorkDir: t.TempDir()})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "creating step"))
}
