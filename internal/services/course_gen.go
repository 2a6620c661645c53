package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/data/repos/progress"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/course_build"
	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// CompletionNotifier is told once per request when the build ends.
type CompletionNotifier interface {
	NotifyCompletion(ctx context.Context, c course.Completion)
}

// ProgressReport is the status view of one generation request.
type ProgressReport struct {
	RequestID  string                           `json:"request_id"`
	Topic      string                           `json:"topic"`
	Status     string                           `json:"status"`
	Progress   int                              `json:"progress"`
	Order      []string                         `json:"order"`
	Stages     map[string]course.ProgressRecord `json:"stages"`
	ResultPath string                           `json:"result_path,omitempty"`
	FailedStep string                           `json:"failed_step,omitempty"`
	Error      string                           `json:"error,omitempty"`
}

type CourseGenService interface {
	// Start registers the request and builds it in the background.
	Start(ctx context.Context, in course.CourseInput) (string, error)
	// Run registers the request and builds it before returning.
	Run(ctx context.Context, in course.CourseInput) (string, *course_build.Result, error)
	Progress(ctx context.Context, requestID string) (*ProgressReport, error)
	// Wait blocks until every background build has returned.
	Wait()
}

type courseGenService struct {
	log      *logger.Logger
	requests progress.CourseRequestRepo
	stages   progress.StageProgressRepo
	pipeline *course_build.CourseBuildPipeline
	notify   CompletionNotifier
	model    string

	// root outlives individual HTTP requests so background builds keep going.
	root context.Context
	wg   sync.WaitGroup
}

func NewCourseGenService(
	root context.Context,
	baseLog *logger.Logger,
	requests progress.CourseRequestRepo,
	stages progress.StageProgressRepo,
	pipeline *course_build.CourseBuildPipeline,
	notify CompletionNotifier,
	model string,
) CourseGenService {
	if root == nil {
		root = context.Background()
	}
	return &courseGenService{
		log:      baseLog.With("service", "CourseGenService"),
		requests: requests,
		stages:   stages,
		pipeline: pipeline,
		notify:   notify,
		model:    model,
		root:     root,
	}
}

func (s *courseGenService) Start(ctx context.Context, in course.CourseInput) (string, error) {
	requestID, err := s.register(ctx, in)
	if err != nil {
		return "", err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.execute(s.root, requestID, in)
	}()
	return requestID, nil
}

func (s *courseGenService) Run(ctx context.Context, in course.CourseInput) (string, *course_build.Result, error) {
	requestID, err := s.register(ctx, in)
	if err != nil {
		return "", nil, err
	}
	res, err := s.execute(ctx, requestID, in)
	return requestID, res, err
}

func (s *courseGenService) Wait() { s.wg.Wait() }

func (s *courseGenService) register(ctx context.Context, in course.CourseInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", apierr.BadRequest("invalid_input", err)
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return "", apierr.Internal(fmt.Errorf("encode input: %w", err))
	}
	req := &jobs.CourseRequest{
		RequestID: uuid.NewString(),
		Topic:     in.Topic,
		Status:    jobs.RequestStatusPending,
		Model:     s.model,
		Input:     datatypes.JSON(raw),
	}
	if err := s.requests.Create(dbctx.New(ctx), req); err != nil {
		return "", apierr.Internal(fmt.Errorf("create course request: %w", err))
	}
	s.log.Info("course request registered", "request_id", req.RequestID, "topic", req.Topic)
	return req.RequestID, nil
}

func (s *courseGenService) execute(ctx context.Context, requestID string, in course.CourseInput) (*course_build.Result, error) {
	log := s.log.With("request_id", requestID)
	// Status bookkeeping must land even when ctx is canceled mid-build.
	dbc := dbctx.New(context.WithoutCancel(ctx))

	if err := s.requests.UpdateStatus(dbc, requestID, jobs.RequestStatusRunning, nil); err != nil {
		log.Warn("failed to mark request running", "error", err)
	}

	res, err := s.pipeline.Run(ctx, requestID, in)
	if err != nil {
		failed := ""
		var se *orchestrator.StageError
		if errors.As(err, &se) {
			failed = se.Stage
		}
		pct := 0
		if res != nil && res.Progress != nil {
			pct = res.Progress.Percent()
		}
		if uerr := s.requests.UpdateStatus(dbc, requestID, jobs.RequestStatusFailed, map[string]interface{}{
			"failed_step": failed,
			"error":       err.Error(),
			"progress":    pct,
		}); uerr != nil {
			log.Warn("failed to mark request failed", "error", uerr)
		}
		s.completion(ctx, course.Completion{
			Status:       course.CompletionError,
			RequestID:    requestID,
			ProgressPath: artifacts.ProgressPath(requestID),
			Step:         failed,
			Error:        err.Error(),
		})
		log.Error("course build failed", "failed_step", failed, "error", err)
		return res, err
	}

	if uerr := s.requests.UpdateStatus(dbc, requestID, jobs.RequestStatusCompleted, map[string]interface{}{
		"result_path": res.ResultPath,
		"progress":    res.Progress.Percent(),
	}); uerr != nil {
		log.Warn("failed to mark request completed", "error", uerr)
	}
	s.completion(ctx, course.Completion{
		Status:       course.CompletionCompleted,
		RequestID:    requestID,
		ProgressPath: artifacts.ProgressPath(requestID),
		ResultPath:   res.ResultPath,
	})
	return res, nil
}

func (s *courseGenService) completion(ctx context.Context, c course.Completion) {
	if s.notify != nil {
		s.notify.NotifyCompletion(context.WithoutCancel(ctx), c)
	}
}

func (s *courseGenService) Progress(ctx context.Context, requestID string) (*ProgressReport, error) {
	dbc := dbctx.New(ctx)
	req, err := s.requests.GetByID(dbc, requestID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if req == nil {
		return nil, apierr.NotFound("course_not_found", fmt.Errorf("course request %q not found", requestID))
	}
	rows, err := s.stages.GetByRequestID(dbc, requestID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	snap := orchestrator.RestoreProgress(course.StageOrder, recordsOf(rows)).Snapshot(requestID)
	return &ProgressReport{
		RequestID:  requestID,
		Topic:      req.Topic,
		Status:     req.Status,
		Progress:   snap.Progress,
		Order:      snap.Order,
		Stages:     snap.Stages,
		ResultPath: req.ResultPath,
		FailedStep: req.FailedStep,
		Error:      req.Error,
	}, nil
}
