package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/systemstart/testrun/pkg/steps"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("run-1")
	convert := &steps.FunctionStep{Label: "convert"}
	verify := &steps.ProcessStep{Label: "verify"}

	r.StepStarted(convert)
	r.StepFinished(convert, steps.Ok(), 20*time.Millisecond)
	r.StepStarted(verify)
	r.StepFinished(verify, steps.Fail(errors.New("exit 1")), time.Second)

	require.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("function", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("process", "failure")))
	require.Equal(t, 0.0, testutil.ToFloat64(r.inFlight))
	require.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_WriteFile(t *testing.T) {
	r := NewRecorder("run-2")
	step := &steps.ProcessStep{Label: "cli"}
	r.StepStarted(step)
	r.StepFinished(step, steps.Ok(), time.Millisecond)

	path := filepath.Join(t.TempDir(), "testrun.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `testrun_steps_total{kind="process",outcome="success",run_id="run-2"} 1`)
	require.Contains(t, string(data), "testrun_step_duration_seconds_bucket")
}
