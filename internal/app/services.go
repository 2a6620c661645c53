package app

import (
	"context"

	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/course_build"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type Services struct {
	Notifier  *realtime.Notifier
	CourseGen services.CourseGenService
	Studio    services.StudioService
}

func wireServices(
	root context.Context,
	log *logger.Logger,
	cfg Config,
	repos Repos,
	clients Clients,
	hub *realtime.SSEHub,
	rec observability.Recorder,
	extra ...realtime.Publisher,
) Services {
	log.Info("Wiring services...")

	// With a bus every replica's forwarder feeds its own hub, so publishing
	// locally as well would deliver twice.
	var pub realtime.Publisher = realtime.HubPublisher(hub)
	if clients.SSEBus != nil {
		pub = clients.SSEBus
	}
	notifier := realtime.NewNotifier(log, realtime.MultiPublisher(append([]realtime.Publisher{pub}, extra...)...))

	engine := orchestrator.NewEngine(log, clients.Artifacts)
	engine.Store = services.NewProgressStore(log, repos.StageProgress)
	engine.Notifier = notifier
	engine.Recorder = rec
	engine.Pacing = cfg.StagePacing()
	engine.SpanPrefix = "course_build"

	pipeline := course_build.NewCourseBuildPipeline(
		log,
		clients.LLM,
		clients.Artifacts,
		engine,
		cfg.RetryPolicy(),
		rec,
		course_build.Config{
			FanOutLimit:       cfg.FanOutLimit,
			StrictValidation:  cfg.StrictValidation,
			StructuredOutline: cfg.StructuredOutline,
		},
	)

	return Services{
		Notifier:  notifier,
		CourseGen: services.NewCourseGenService(root, log, repos.CourseRequest, repos.StageProgress, pipeline, notifier, clients.LLM.Model()),
		Studio:    services.NewStudioService(log, repos.CourseRequest, clients.Artifacts, clients.LLM),
	}
}
