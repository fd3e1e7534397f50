package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageRender, 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncFileResult(ResultSuccess)
	pr.IncFileResult(ResultSuccess)
	pr.IncFileResult(ResultSkipped)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.SetSections("a.js", 4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "," + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	require.InDelta(t, 2, values["doxic_file_results_total,success"], 0)
	require.InDelta(t, 1, values["doxic_file_results_total,skipped"], 0)
	require.InDelta(t, 4, values["doxic_sections,a.js"], 0)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(OutcomeNothingToDo)

	path := filepath.Join(t.TempDir(), "doxic.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `doxic_run_outcomes_total{outcome="nothing_to_do"} 1`))

	err = pr.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	require.Error(t, err)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveStageDuration(StageRead, time.Second)
		pr.ObserveRunDuration(time.Second)
		pr.IncFileResult(ResultFailed)
		pr.IncRunOutcome(OutcomeFailed)
		pr.SetSections("x", 1)
	})
}
