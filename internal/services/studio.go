package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/data/repos/progress"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/export"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/prompts"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/tracking"
	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/llm"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// BlockUpdate is the outcome of toggling a block's completion.
type BlockUpdate struct {
	Block          course.BlockDoc `json:"block"`
	CourseProgress float64         `json:"course_progress"`
}

// StudioService reads and annotates generated courses.
type StudioService interface {
	Summaries(ctx context.Context) ([]course.Summary, error)
	Course(ctx context.Context, courseID string) (*course.CourseDocument, error)
	UpdateBlock(ctx context.Context, courseID string, key tracking.BlockKey, completed bool) (*BlockUpdate, error)
	BlockDetails(ctx context.Context, courseID string, key tracking.BlockKey) (*course.BlockDoc, error)
	// Tutor answers a question about one block and appends the exchange to
	// the block's chat history.
	Tutor(ctx context.Context, courseID string, key tracking.BlockKey, question string) (*course.ChatTurn, error)
	ExportMarkdown(ctx context.Context, courseID string) (string, error)
	ExportHTML(ctx context.Context, courseID string) (string, error)
}

type studioService struct {
	log      *logger.Logger
	requests progress.CourseRequestRepo
	store    artifacts.Store
	ai       llm.Client

	// locks serializes read-modify-write of one course document.
	locks sync.Map
}

func NewStudioService(baseLog *logger.Logger, requests progress.CourseRequestRepo, store artifacts.Store, ai llm.Client) StudioService {
	return &studioService{
		log:      baseLog.With("service", "StudioService"),
		requests: requests,
		store:    store,
		ai:       ai,
	}
}

func (s *studioService) lock(courseID string) func() {
	v, _ := s.locks.LoadOrStore(courseID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *studioService) Summaries(ctx context.Context) ([]course.Summary, error) {
	reqs, err := s.requests.List(dbctx.New(ctx), jobs.RequestStatusCompleted, 0)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	out := make([]course.Summary, 0, len(reqs))
	for _, r := range reqs {
		doc, err := s.load(ctx, r.RequestID)
		if err != nil {
			s.log.Warn("skipping unreadable course", "course_id", r.RequestID, "error", err)
			continue
		}
		out = append(out, tracking.Summarize(r.RequestID, doc))
	}
	return out, nil
}

func (s *studioService) Course(ctx context.Context, courseID string) (*course.CourseDocument, error) {
	return s.load(ctx, courseID)
}

func (s *studioService) UpdateBlock(ctx context.Context, courseID string, key tracking.BlockKey, completed bool) (*BlockUpdate, error) {
	unlock := s.lock(courseID)
	defer unlock()

	doc, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	b, err := tracking.FindBlock(doc, key)
	if err != nil {
		return nil, lookupError(err)
	}
	b.Completed = completed
	out := &BlockUpdate{Block: *b, CourseProgress: tracking.Completion(doc)}

	if err := s.store.Save(ctx, artifacts.ResultPath(courseID), doc); err != nil {
		return nil, apierr.Internal(fmt.Errorf("save course: %w", err))
	}
	s.log.Info("block completion updated",
		"course_id", courseID, "block", key.BlockTitle, "completed", completed, "course_progress", out.CourseProgress)
	return out, nil
}

func (s *studioService) BlockDetails(ctx context.Context, courseID string, key tracking.BlockKey) (*course.BlockDoc, error) {
	doc, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	b, err := tracking.FindBlock(doc, key)
	if err != nil {
		return nil, lookupError(err)
	}
	out := *b
	return &out, nil
}

// The model call runs without the course lock; the exchange is appended to a
// freshly loaded document so concurrent completion updates are kept.
func (s *studioService) Tutor(ctx context.Context, courseID string, key tracking.BlockKey, question string) (*course.ChatTurn, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apierr.BadRequest("invalid_question", errors.New("question is required"))
	}
	if s.ai == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "tutor_unavailable", errors.New("no llm client configured"))
	}
	doc, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	b, err := tracking.FindBlock(doc, key)
	if err != nil {
		return nil, lookupError(err)
	}
	p, err := prompts.Build(prompts.PromptBlockTutor, prompts.TutorInput(*doc, key.WeekTopic, key.ModuleTitle, *b, question))
	if err != nil {
		return nil, apierr.Internal(err)
	}

	started := time.Now().UTC()
	answer, err := s.ai.GenerateText(ctx, p.System, p.User)
	if err != nil {
		s.log.Warn("tutor reply failed", "course_id", courseID, "block", key.BlockTitle, "error", err)
		return nil, apierr.New(http.StatusBadGateway, "tutor_failed", err)
	}
	turn := course.ChatTurn{
		Question:     strings.TrimSpace(question),
		Answer:       strings.TrimSpace(answer),
		Model:        s.ai.Model(),
		ResponseTime: time.Since(started).Round(10 * time.Millisecond).Seconds(),
		StartedAt:    started,
	}

	unlock := s.lock(courseID)
	defer unlock()
	doc, err = s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if b, err = tracking.FindBlock(doc, key); err != nil {
		return nil, lookupError(err)
	}
	b.Chat = append(b.Chat, turn)
	if err := s.store.Save(ctx, artifacts.ResultPath(courseID), doc); err != nil {
		return nil, apierr.Internal(fmt.Errorf("save course: %w", err))
	}
	s.log.Info("tutor exchange recorded",
		"course_id", courseID, "block", key.BlockTitle, "model", turn.Model, "response_time", turn.ResponseTime)
	return &turn, nil
}

func (s *studioService) ExportMarkdown(ctx context.Context, courseID string) (string, error) {
	doc, err := s.load(ctx, courseID)
	if err != nil {
		return "", err
	}
	return export.Markdown(*doc), nil
}

func (s *studioService) ExportHTML(ctx context.Context, courseID string) (string, error) {
	doc, err := s.load(ctx, courseID)
	if err != nil {
		return "", err
	}
	html, err := export.HTML(*doc)
	if err != nil {
		return "", apierr.Internal(err)
	}
	return html, nil
}

func (s *studioService) load(ctx context.Context, courseID string) (*course.CourseDocument, error) {
	raw, err := s.store.LoadRaw(ctx, artifacts.ResultPath(courseID))
	if errors.Is(err, artifacts.ErrNotFound) {
		return nil, apierr.NotFound("course_not_found", fmt.Errorf("course %q not found", courseID))
	}
	if err != nil {
		return nil, apierr.BadRequest("invalid_course_id", err)
	}
	doc, err := tracking.Decode(raw)
	if err != nil {
		return nil, apierr.Unprocessable("malformed_document", err)
	}
	return doc, nil
}

func lookupError(err error) error {
	switch {
	case errors.Is(err, tracking.ErrWeekNotFound):
		return apierr.NotFound("week_not_found", err)
	case errors.Is(err, tracking.ErrModuleNotFound):
		return apierr.NotFound("module_not_found", err)
	case errors.Is(err, tracking.ErrBlockNotFound):
		return apierr.NotFound("block_not_found", err)
	case errors.Is(err, tracking.ErrMalformedDocument):
		return apierr.Unprocessable("malformed_document", err)
	default:
		return apierr.Internal(err)
	}
}
