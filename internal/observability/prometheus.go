package observability

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coursegen"

// PrometheusRecorder implements Recorder on client_golang collectors.
type PrometheusRecorder struct {
	once             sync.Once
	reg              *prom.Registry
	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	llmAttempts      *prom.CounterVec
	llmRetries       *prom.CounterVec
	retriesExhausted *prom.CounterVec
	parseWarnings    *prom.CounterVec
	dataQuality      *prom.CounterVec
	fanOutUnits      *prom.HistogramVec
	httpDuration     *prom.HistogramVec
	httpInflight     prom.Gauge
}

// NewPrometheusRecorder registers the collectors on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual course build stages",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total course build duration",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200, 1800},
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Course builds by final status",
		}, []string{"outcome"})
		pr.llmAttempts = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "llm_attempts_total",
			Help:      "LLM calls issued per stage, retries included",
		}, []string{"stage"})
		pr.llmRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "llm_retries_total",
			Help:      "LLM calls retried after a transient failure",
		}, []string{"stage"})
		pr.retriesExhausted = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "llm_retry_exhausted_total",
			Help:      "LLM calls that failed after exhausting retries",
		}, []string{"stage"})
		pr.parseWarnings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parse_warnings_total",
			Help:      "Markdown entries skipped or degraded while parsing",
		}, []string{"stage"})
		pr.dataQuality = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "data_quality_issues_total",
			Help:      "Structural validation issues by stage and kind",
		}, []string{"stage", "issue"})
		pr.fanOutUnits = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_units",
			Help:      "Units dispatched per fan-out stage",
			Buckets:   prom.LinearBuckets(1, 4, 10),
		}, []string{"stage"})
		pr.httpDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route and status",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route", "status"})
		pr.httpInflight = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "API requests currently being served",
		})
		reg.MustRegister(
			pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
			pr.llmAttempts, pr.llmRetries, pr.retriesExhausted,
			pr.parseWarnings, pr.dataQuality, pr.fanOutUnits,
			pr.httpDuration, pr.httpInflight,
		)
	})
	return pr
}

// Handler serves the recorder's registry in the exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome ResultLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncLLMAttempt(stage string) {
	if p == nil || p.llmAttempts == nil {
		return
	}
	p.llmAttempts.WithLabelValues(stage).Inc()
}

func (p *PrometheusRecorder) IncLLMRetry(stage string) {
	if p == nil || p.llmRetries == nil {
		return
	}
	p.llmRetries.WithLabelValues(stage).Inc()
}

func (p *PrometheusRecorder) IncLLMRetryExhausted(stage string) {
	if p == nil || p.retriesExhausted == nil {
		return
	}
	p.retriesExhausted.WithLabelValues(stage).Inc()
}

func (p *PrometheusRecorder) AddParseWarnings(stage string, n int) {
	if p == nil || p.parseWarnings == nil || n <= 0 {
		return
	}
	p.parseWarnings.WithLabelValues(stage).Add(float64(n))
}

func (p *PrometheusRecorder) AddDataQuality(stage, issue string, n int) {
	if p == nil || p.dataQuality == nil || n <= 0 {
		return
	}
	p.dataQuality.WithLabelValues(stage, issue).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveFanOut(stage string, units int) {
	if p == nil || p.fanOutUnits == nil {
		return
	}
	p.fanOutUnits.WithLabelValues(stage).Observe(float64(units))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	if p == nil || p.httpDuration == nil {
		return
	}
	p.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddHTTPInflight(delta float64) {
	if p == nil || p.httpInflight == nil {
		return
	}
	p.httpInflight.Add(delta)
}
