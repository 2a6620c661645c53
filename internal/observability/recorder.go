package observability

import "time"

// ResultLabel enumerates stage outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder receives pipeline measurements. NoopRecorder is the default when
// metrics are disabled.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome ResultLabel)
	IncLLMAttempt(stage string)
	IncLLMRetry(stage string)
	IncLLMRetryExhausted(stage string)
	AddParseWarnings(stage string, n int)
	AddDataQuality(stage, issue string, n int)
	ObserveFanOut(stage string, units int)
}

// HTTPRecorder instruments the API surface.
type HTTPRecorder interface {
	ObserveHTTPRequest(method, route, status string, d time.Duration)
	AddHTTPInflight(delta float64)
}

type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                {}
func (NoopRecorder) IncLLMAttempt(string)                       {}
func (NoopRecorder) IncLLMRetry(string)                         {}
func (NoopRecorder) IncLLMRetryExhausted(string)                {}
func (NoopRecorder) AddParseWarnings(string, int)               {}
func (NoopRecorder) AddDataQuality(string, string, int)         {}
func (NoopRecorder) ObserveFanOut(string, int)                  {}

// OrNoop substitutes NoopRecorder for a nil recorder.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
