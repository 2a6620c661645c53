package course_build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/parser"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/prompts"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/validation"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/llm"
	"github.com/yungbote/coursegen-backend/internal/platform/retry"
)

// ErrValidation wraps structural issues when strict validation is on.
var ErrValidation = errors.New("generated content failed validation")

// call describes one LLM round trip: which stage it belongs to and the name
// its raw reply is archived under.
type call struct {
	stage   string
	rawName string
	prompt  prompts.Prompt
}

func (p *CourseBuildPipeline) policy(bc *buildContext, c call) retry.Policy {
	return p.retry.With(
		llm.IsRetryable,
		func(attempt int, err error, wait time.Duration) {
			p.rec.IncLLMRetry(c.stage)
			bc.log.Warn("llm call failed, retrying",
				"stage", c.stage, "unit", c.rawName, "attempt", attempt, "wait", wait, "error", err)
		},
		func(attempts int, err error) {
			p.rec.IncLLMRetryExhausted(c.stage)
			bc.log.Error("llm call gave up", "stage", c.stage, "unit", c.rawName, "attempts", attempts, "error", err)
		},
	)
}

// generateParsed asks for markdown, archives the reply and parses it. Parse
// failures and (in strict mode) validation issues are retried like transport
// errors; the last error is returned once the policy is exhausted.
func generateParsed[T any](
	ctx context.Context,
	p *CourseBuildPipeline,
	bc *buildContext,
	c call,
	parse parser.Parser[T],
	check func(T) []validation.Issue,
) (T, error) {
	return retry.Do(ctx, p.policy(bc, c), func(attempt int) (T, error) {
		var zero T
		p.rec.IncLLMAttempt(c.stage)
		text, err := p.ai.GenerateText(ctx, c.prompt.System, c.prompt.User)
		if err != nil {
			return zero, err
		}
		p.archive(ctx, bc, c.rawName, text)

		res, err := parse.Parse(text)
		if err != nil {
			return zero, fmt.Errorf("parse %s: %w", c.rawName, err)
		}
		meta := map[string]any{"request_id": bc.requestID, "unit": c.rawName, "attempt": attempt}
		observability.ReportParseWarnings(ctx, bc.log, p.rec, c.stage, warningStrings(res.Warnings), meta)

		if check != nil {
			issues := issueStrings(check(res.Record))
			if len(issues) > 0 && p.cfg.StrictValidation {
				return zero, fmt.Errorf("%w: %s: %s", ErrValidation, c.rawName, issues[0])
			}
			observability.ReportDataQuality(ctx, bc.log, p.rec, c.stage, issues, meta)
		}
		return res.Record, nil
	})
}

// archive keeps the raw reply for diagnostics. Failures are logged only.
func (p *CourseBuildPipeline) archive(ctx context.Context, bc *buildContext, name, text string) {
	if err := p.store.SaveRaw(ctx, artifacts.RawPath(bc.requestID, name), []byte(text)); err != nil {
		bc.log.Warn("failed to archive raw reply", "unit", name, "error", err)
	}
}

func warningStrings(ws []parser.Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.String())
	}
	return out
}

func issueStrings(issues []validation.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.String())
	}
	return out
}
