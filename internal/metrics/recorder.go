package metrics

import "time"

// ResultLabel enumerates per-file result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel is the final status of a run.
type OutcomeLabel string

const (
	OutcomeSuccess     OutcomeLabel = "success"
	OutcomeNothingToDo OutcomeLabel = "nothing_to_do"
	OutcomeFailed      OutcomeLabel = "failed"
	OutcomeCanceled    OutcomeLabel = "canceled"
)

// Stage names used with ObserveStageDuration.
const (
	StageRead   = "read"
	StageSplit  = "split"
	StageRender = "render"
	StageWrite  = "write"
	StageAssets = "assets"
)

// Recorder defines observability hooks for runs and their stages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncFileResult(result ResultLabel)
	IncRunOutcome(outcome OutcomeLabel)
	SetSections(source string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncFileResult(ResultLabel)                  {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                 {}
func (NoopRecorder) SetSections(string, int)                    {}
