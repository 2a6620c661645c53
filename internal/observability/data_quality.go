package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const maxSampleIssues = 3

// ReportDataQuality counts structural issues by kind and logs a sample of them.
func ReportDataQuality(ctx context.Context, log *logger.Logger, rec Recorder, stage string, issues []string, meta map[string]any) {
	report(ctx, log, rec, stage, issues, meta, false)
}

// ReportParseWarnings is ReportDataQuality for entries a parser had to degrade.
func ReportParseWarnings(ctx context.Context, log *logger.Logger, rec Recorder, stage string, warnings []string, meta map[string]any) {
	report(ctx, log, rec, stage, warnings, meta, true)
}

func report(ctx context.Context, log *logger.Logger, rec Recorder, stage string, issues []string, meta map[string]any, parse bool) {
	if len(issues) == 0 {
		return
	}
	rec = OrNoop(rec)
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	if meta == nil {
		meta = map[string]any{}
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		meta["trace_id"] = sc.TraceID().String()
	}

	issueCounts := map[string]int{}
	samples := make([]string, 0, maxSampleIssues)
	for _, s := range issues {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(samples) < maxSampleIssues {
			samples = append(samples, s)
		}
		if parse {
			issueCounts["parse_warning"]++
			continue
		}
		issueCounts[classifyIssue(s)]++
	}
	if len(issueCounts) == 0 {
		return
	}

	if parse {
		rec.AddParseWarnings(stage, issueCounts["parse_warning"])
	} else {
		for kind, n := range issueCounts {
			rec.AddDataQuality(stage, kind, n)
		}
	}
	if log != nil {
		msg := "data quality issue detected"
		if parse {
			msg = "parse warnings"
		}
		log.Warn(msg,
			"stage", stage,
			"issues", issueCounts,
			"sample_errors", samples,
			"meta", meta,
		)
	}
}

func classifyIssue(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "placeholder title"):
		return "placeholder_title"
	case strings.Contains(lower, "sum to"):
		return "duration_mismatch"
	case strings.Contains(lower, "outside ["):
		return "block_length"
	case strings.Contains(lower, "reference"), strings.Contains(lower, "source"):
		return "reference"
	case strings.Contains(lower, "milestone"):
		return "milestone_shape"
	default:
		return "validation_error"
	}
}
