package course_build

import (
	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/llm"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/retry"
)

type Config struct {
	// FanOutLimit bounds concurrent units in fan-out stages; <= 0 is unbounded.
	FanOutLimit int
	// StrictValidation turns structural issues into retryable errors.
	StrictValidation bool
	// StructuredOutline asks for the outline as schema-constrained JSON.
	StructuredOutline bool
}

type CourseBuildPipeline struct {
	log    *logger.Logger
	ai     llm.Client
	store  artifacts.Store
	engine *orchestrator.Engine
	retry  retry.Policy
	rec    observability.Recorder
	cfg    Config
}

func NewCourseBuildPipeline(
	baseLog *logger.Logger,
	ai llm.Client,
	store artifacts.Store,
	engine *orchestrator.Engine,
	policy retry.Policy,
	rec observability.Recorder,
	cfg Config,
) *CourseBuildPipeline {
	return &CourseBuildPipeline{
		log:    baseLog.With("job", "course_build"),
		ai:     ai,
		store:  store,
		engine: engine,
		retry:  policy,
		rec:    observability.OrNoop(rec),
		cfg:    cfg,
	}
}

func (p *CourseBuildPipeline) Type() string { return "course_build" }
