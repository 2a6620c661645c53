package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// Stage is one step of a pipeline. Run returns the value saved as the stage
// artifact; a nil value skips the artifact write.
type Stage struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// StageError is returned by Run when a stage fails. The pipeline stops there.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// ProgressStore persists individual stage records keyed by (request, stage).
type ProgressStore interface {
	SaveStage(ctx context.Context, requestID, stage string, position int, rec course.ProgressRecord) error
}

// Notifier receives every applied progress transition.
type Notifier interface {
	NotifyProgress(ctx context.Context, requestID string, upd course.ProgressUpdate)
}

type Engine struct {
	Artifacts artifacts.Store
	Store     ProgressStore
	Notifier  Notifier
	Recorder  observability.Recorder

	// Pacing is the pause between consecutive stages.
	Pacing time.Duration
	// SpanPrefix names stage spans "<prefix>.<stage>".
	SpanPrefix string
	Now        func() time.Time

	log *logger.Logger
}

func NewEngine(log *logger.Logger, store artifacts.Store) *Engine {
	return &Engine{
		Artifacts:  store,
		Recorder:   observability.NoopRecorder{},
		SpanPrefix: "pipeline",
		Now:        time.Now,
		log:        log.With("component", "StageEngine"),
	}
}

// Run executes stages in order for one request. Every stage is first recorded
// as pending, then moves started -> succeeded, or to failed, which aborts the
// run with a *StageError. The returned Progress reflects the final state
// either way.
func (e *Engine) Run(ctx context.Context, requestID string, stages []Stage) (*Progress, error) {
	if err := validateStages(stages); err != nil {
		return nil, err
	}
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	prog := NewProgress(names)
	log := e.log.With("request_id", requestID)

	for i, name := range names {
		rec, _ := prog.Record(name)
		if err := e.persist(ctx, requestID, name, i, rec); err != nil {
			return prog, &StageError{Stage: name, Err: err}
		}
	}
	if err := e.saveSnapshot(ctx, requestID, prog); err != nil {
		return prog, &StageError{Stage: names[0], Err: err}
	}

	buildStart := e.Now()
	for i, st := range stages {
		if err := e.runStage(ctx, log, requestID, prog, i, st); err != nil {
			e.recorder().ObserveBuildDuration(e.Now().Sub(buildStart))
			e.recorder().IncBuildOutcome(resultLabel(ctx, err))
			return prog, err
		}
		if i < len(stages)-1 {
			if err := e.pace(ctx); err != nil {
				next := stages[i+1].Name
				e.fail(ctx, log, requestID, prog, next, err)
				return prog, &StageError{Stage: next, Err: err}
			}
		}
	}
	e.recorder().ObserveBuildDuration(e.Now().Sub(buildStart))
	e.recorder().IncBuildOutcome(observability.ResultSuccess)
	return prog, nil
}

func (e *Engine) runStage(ctx context.Context, log *logger.Logger, requestID string, prog *Progress, pos int, st Stage) error {
	prefix := e.SpanPrefix
	if prefix == "" {
		prefix = "pipeline"
	}
	ctx, span := observability.StartSpan(ctx, prefix+"."+st.Name,
		attribute.String("request_id", requestID),
		attribute.Int("stage.position", pos),
	)
	defer span.End()

	if err := e.transition(ctx, requestID, prog, st.Name, course.StatusStarted, nil, nil); err != nil {
		return e.abort(ctx, log, span, requestID, prog, st.Name, err)
	}
	log.Info("stage started", "stage", st.Name, "position", pos)

	start := e.Now()
	out, err := st.Run(ctx)
	var path *string
	if err == nil && out != nil && e.Artifacts != nil {
		p := artifacts.StagePath(requestID, st.Name)
		if err = e.Artifacts.Save(ctx, p, out); err != nil {
			err = fmt.Errorf("save artifact: %w", err)
		} else {
			path = &p
		}
	}
	elapsed := e.Now().Sub(start)
	e.recorder().ObserveStageDuration(st.Name, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.recorder().IncStageResult(st.Name, resultLabel(ctx, err))
		log.Error("stage failed", "stage", st.Name, "elapsed", elapsed, "error", err)
		e.fail(ctx, log, requestID, prog, st.Name, err)
		return &StageError{Stage: st.Name, Err: err}
	}

	if err := e.transition(ctx, requestID, prog, st.Name, course.StatusSucceeded, path, nil); err != nil {
		return e.abort(ctx, log, span, requestID, prog, st.Name, err)
	}
	e.recorder().IncStageResult(st.Name, observability.ResultSuccess)
	log.Info("stage succeeded", "stage", st.Name, "elapsed", elapsed, "progress", prog.Percent())
	return nil
}

// abort handles a bookkeeping error around a stage: the stage is recorded as
// failed like any other failure, since the run stops here.
func (e *Engine) abort(ctx context.Context, log *logger.Logger, span trace.Span, requestID string, prog *Progress, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.recorder().IncStageResult(stage, resultLabel(ctx, err))
	log.Error("stage progress could not be recorded", "stage", stage, "error", err)
	e.fail(ctx, log, requestID, prog, stage, err)
	return &StageError{Stage: stage, Err: err}
}

// fail records the failure with a context that outlives cancellation, so an
// aborted run still leaves a failed record behind.
func (e *Engine) fail(ctx context.Context, log *logger.Logger, requestID string, prog *Progress, stage string, cause error) {
	msg := cause.Error()
	if err := e.transition(context.WithoutCancel(ctx), requestID, prog, stage, course.StatusFailed, nil, &msg); err != nil {
		log.Warn("failed to record stage failure", "stage", stage, "error", err)
	}
}

func (e *Engine) transition(ctx context.Context, requestID string, prog *Progress, stage string, status course.StageStatus, path, errMsg *string) error {
	upd, applied, err := prog.Apply(stage, status, path, errMsg, e.Now())
	if err != nil || !applied {
		return err
	}
	if e.Notifier != nil {
		e.Notifier.NotifyProgress(ctx, requestID, upd)
	}
	if err := e.persist(ctx, requestID, stage, prog.Position(stage), upd.Record()); err != nil {
		return err
	}
	return e.saveSnapshot(ctx, requestID, prog)
}

func (e *Engine) persist(ctx context.Context, requestID, stage string, pos int, rec course.ProgressRecord) error {
	if e.Store == nil {
		return nil
	}
	if err := e.Store.SaveStage(ctx, requestID, stage, pos, rec); err != nil {
		return fmt.Errorf("persist %s progress: %w", stage, err)
	}
	return nil
}

func (e *Engine) saveSnapshot(ctx context.Context, requestID string, prog *Progress) error {
	if e.Artifacts == nil {
		return nil
	}
	if err := e.Artifacts.Save(ctx, artifacts.ProgressPath(requestID), prog.Snapshot(requestID)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (e *Engine) pace(ctx context.Context) error {
	if e.Pacing <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.Pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) recorder() observability.Recorder { return observability.OrNoop(e.Recorder) }

func validateStages(stages []Stage) error {
	if len(stages) == 0 {
		return errors.New("no stages to run")
	}
	seen := map[string]bool{}
	for _, s := range stages {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("stage missing Name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate stage name %q", s.Name)
		}
		if s.Run == nil {
			return fmt.Errorf("stage %q: Run is nil", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

func resultLabel(ctx context.Context, err error) observability.ResultLabel {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return observability.ResultCanceled
	}
	return observability.ResultFailed
}
