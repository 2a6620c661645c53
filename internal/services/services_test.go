package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/data/repos/progress"
	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/course_build"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/tracking"
	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/llm/llmtest"
	"github.com/yungbote/coursegen-backend/internal/platform/retry"
)

type completions struct {
	mu  sync.Mutex
	got []course.Completion
}

func (c *completions) NotifyCompletion(_ context.Context, comp course.Completion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, comp)
}

func (c *completions) all() []course.Completion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]course.Completion(nil), c.got...)
}

type env struct {
	gen      CourseGenService
	studio   StudioService
	requests progress.CourseRequestRepo
	store    *artifacts.LocalStore
	notified *completions
}

func newEnv(t *testing.T, ai *llmtest.Scripted) env {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)

	store, err := artifacts.NewLocalStore(log, t.TempDir())
	require.NoError(t, err)

	requests := progress.NewCourseRequestRepo(db, log)
	stages := progress.NewStageProgressRepo(db, log)

	engine := orchestrator.NewEngine(log, store)
	engine.Store = NewProgressStore(log, stages)

	policy := retry.Policy{Base: time.Millisecond, Max: 2 * time.Millisecond, MaxElapsed: 5 * time.Second, MaxAttempts: 2}
	pipeline := course_build.NewCourseBuildPipeline(log, ai, store, engine, policy, nil, course_build.Config{FanOutLimit: 2})

	n := &completions{}
	gen := NewCourseGenService(context.Background(), log, requests, stages, pipeline, n, ai.Model())
	t.Cleanup(gen.Wait)
	return env{
		gen:      gen,
		studio:   NewStudioService(log, requests, store, ai),
		requests: requests,
		store:    store,
		notified: n,
	}
}

var input = course.CourseInput{Topic: "Sample", TotalWeeks: 1, HoursPerWeek: 2, Motivation: course.MotivationJob}

func status(t *testing.T, err error) int {
	t.Helper()
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "want *apierr.Error, got %v", err)
	return ae.Status
}

func TestCourseGenRunSucceeds(t *testing.T) {
	e := newEnv(t, llmtest.Fixture())
	ctx := context.Background()

	id, res, err := e.gen.Run(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "Offline Sample Course", res.Document.Course.Title)

	rep, err := e.gen.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobs.RequestStatusCompleted, rep.Status)
	assert.Equal(t, 100, rep.Progress)
	assert.Equal(t, artifacts.ResultPath(id), rep.ResultPath)
	assert.Equal(t, course.StageOrder, rep.Order)
	for _, stage := range course.StageOrder {
		assert.Equal(t, course.StatusSucceeded, rep.Stages[stage].Status, stage)
		require.NotNil(t, rep.Stages[stage].Path, stage)
	}

	got := e.notified.all()
	require.Len(t, got, 1)
	assert.Equal(t, course.CompletionCompleted, got[0].Status)
	assert.Equal(t, id, got[0].RequestID)
}

func TestCourseGenRunRecordsFailure(t *testing.T) {
	rules := llmtest.FixtureRules()
	rules[0].FailTimes = -1
	e := newEnv(t, llmtest.NewScripted(rules...))
	ctx := context.Background()

	id, _, err := e.gen.Run(ctx, input)
	require.Error(t, err)

	rep, err := e.gen.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobs.RequestStatusFailed, rep.Status)
	assert.Equal(t, course.StageCourseOutline, rep.FailedStep)
	assert.NotEmpty(t, rep.Error)
	assert.Equal(t, 7, rep.Progress)
	assert.Equal(t, course.StatusFailed, rep.Stages[course.StageCourseOutline].Status)
	assert.Equal(t, course.StatusPending, rep.Stages[course.StageCourseWeeks].Status)

	got := e.notified.all()
	require.Len(t, got, 1)
	assert.Equal(t, course.CompletionError, got[0].Status)
	assert.Equal(t, course.StageCourseOutline, got[0].Step)
}

func TestCourseGenStartRunsInBackground(t *testing.T) {
	e := newEnv(t, llmtest.Fixture())
	ctx, cancel := context.WithCancel(context.Background())

	id, err := e.gen.Start(ctx, input)
	require.NoError(t, err)
	// The caller's context ending must not stop the build.
	cancel()
	e.gen.Wait()

	rep, err := e.gen.Progress(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, jobs.RequestStatusCompleted, rep.Status)
}

func TestCourseGenRejectsInvalidInputAndUnknownRequests(t *testing.T) {
	e := newEnv(t, llmtest.Fixture())
	ctx := context.Background()

	bad := input
	bad.TotalWeeks = 0
	_, err := e.gen.Start(ctx, bad)
	assert.Equal(t, http.StatusBadRequest, status(t, err))
	assert.ErrorIs(t, err, course.ErrInvalidInput)

	_, err = e.gen.Progress(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, status(t, err))
}

func TestStudioTracksBlockCompletion(t *testing.T) {
	e := newEnv(t, llmtest.Fixture())
	ctx := context.Background()
	id, _, err := e.gen.Run(ctx, input)
	require.NoError(t, err)

	sums, err := e.studio.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, id, sums[0].CourseID)
	assert.Equal(t, float64(0), sums[0].CourseProgress)

	key := tracking.BlockKey{WeekTopic: "Getting Started", ModuleTitle: "Core Ideas", BlockTitle: "Concepts"}
	upd, err := e.studio.UpdateBlock(ctx, id, key, true)
	require.NoError(t, err)
	assert.True(t, upd.Block.Completed)
	assert.Equal(t, 25.0, upd.CourseProgress)

	blk, err := e.studio.BlockDetails(ctx, id, key)
	require.NoError(t, err)
	assert.True(t, blk.Completed)
	assert.Equal(t, []string{"Describe the key concepts"}, blk.Objectives)

	_, err = e.studio.BlockDetails(ctx, id, tracking.BlockKey{WeekTopic: "Getting Started", ModuleTitle: "Core Ideas", BlockTitle: "concepts"})
	assert.Equal(t, http.StatusNotFound, status(t, err))
	assert.ErrorIs(t, err, tracking.ErrBlockNotFound)

	_, err = e.studio.UpdateBlock(ctx, id, tracking.BlockKey{WeekTopic: "Nope"}, true)
	assert.ErrorIs(t, err, tracking.ErrWeekNotFound)

	md, err := e.studio.ExportMarkdown(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, md, "# Offline Sample Course\n")

	html, err := e.studio.ExportHTML(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Offline Sample Course</title>")
}

func TestStudioSerializesConcurrentUpdates(t *testing.T) {
	e := newEnv(t, llmtest.Fixture())
	ctx := context.Background()
	id, _, err := e.gen.Run(ctx, input)
	require.NoError(t, err)

	var keys []tracking.BlockKey
	for _, m := range []string{"Core Ideas", "First Project"} {
		for _, b := range []string{"Concepts", "Exercises"} {
			keys = append(keys, tracking.BlockKey{WeekTopic: "Getting Started", ModuleTitle: m, BlockTitle: b})
		}
	}
	var wg sync.WaitGroup
	errs := make([]error, len(keys))
	for i, k := range keys {
		wg.Add(1)
		go func(i int, k tracking.BlockKey) {
			defer wg.Done()
			_, errs[i] = e.studio.UpdateBlock(ctx, id, k, true)
		}(i, k)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	doc, err := e.studio.Course(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100.0, tracking.Completion(doc))
}

func TestStudioReportsMissingAndMalformedCourses(t *testing.T) {
	e := newEnv(t, llmtest.Fixture())
	ctx := context.Background()

	_, err := e.studio.Course(ctx, "nope")
	assert.Equal(t, http.StatusNotFound, status(t, err))

	require.NoError(t, e.store.SaveRaw(ctx, artifacts.ResultPath("broken"), []byte("{not json")))
	_, err = e.studio.Course(ctx, "broken")
	assert.Equal(t, http.StatusUnprocessableEntity, status(t, err))
	assert.ErrorIs(t, err, tracking.ErrMalformedDocument)

	_, err = e.studio.ExportMarkdown(ctx, "nope")
	assert.Equal(t, http.StatusNotFound, status(t, err), fmt.Sprint(err))
}

func TestStudioTutorRecordsChatOnBlock(t *testing.T) {
	ai := llmtest.Fixture()
	e := newEnv(t, ai)
	ctx := context.Background()
	id, _, err := e.gen.Run(ctx, input)
	require.NoError(t, err)

	key := tracking.BlockKey{WeekTopic: "Getting Started", ModuleTitle: "Core Ideas", BlockTitle: "Concepts"}
	_, err = e.studio.UpdateBlock(ctx, id, key, true)
	require.NoError(t, err)

	first, err := e.studio.Tutor(ctx, id, key, "What should I learn first?")
	require.NoError(t, err)
	assert.Equal(t, "What should I learn first?", first.Question)
	assert.Contains(t, first.Answer, "Start from the block objectives")
	assert.Equal(t, "scripted", first.Model)
	assert.False(t, first.StartedAt.IsZero())

	_, err = e.studio.Tutor(ctx, id, key, "And after that?")
	require.NoError(t, err)

	calls := ai.Calls()
	last := calls[len(calls)-1]
	assert.Contains(t, last.System, "You are TutorAI")
	assert.Contains(t, last.User, "Course Title: Offline Sample Course")
	assert.Contains(t, last.User, "Current Block: Concepts")
	assert.Contains(t, last.User, "- Describe the key concepts")
	assert.Contains(t, last.User, "Learner: What should I learn first?")
	assert.Contains(t, last.User, "Question:\nAnd after that?")

	blk, err := e.studio.BlockDetails(ctx, id, key)
	require.NoError(t, err)
	assert.True(t, blk.Completed)
	require.Len(t, blk.Chat, 2)
	assert.Equal(t, "And after that?", blk.Chat[1].Question)

	_, err = e.studio.Tutor(ctx, id, key, "  ")
	assert.Equal(t, http.StatusBadRequest, status(t, err))
	_, err = e.studio.Tutor(ctx, id, tracking.BlockKey{WeekTopic: "Getting Started", ModuleTitle: "Core Ideas", BlockTitle: "Nope"}, "hi")
	assert.ErrorIs(t, err, tracking.ErrBlockNotFound)
	_, err = e.studio.Tutor(ctx, "nope", key, "hi")
	assert.Equal(t, http.StatusNotFound, status(t, err))
}

func TestStudioTutorFailureLeavesCourseUntouched(t *testing.T) {
	rules := llmtest.FixtureRules()
	rules[len(rules)-1].FailTimes = -1
	e := newEnv(t, llmtest.NewScripted(rules...))
	ctx := context.Background()
	id, _, err := e.gen.Run(ctx, input)
	require.NoError(t, err)

	key := tracking.BlockKey{WeekTopic: "Getting Started", ModuleTitle: "First Project", BlockTitle: "Exercises"}
	_, err = e.studio.Tutor(ctx, id, key, "Help?")
	assert.Equal(t, http.StatusBadGateway, status(t, err))

	blk, err := e.studio.BlockDetails(ctx, id, key)
	require.NoError(t, err)
	assert.Empty(t, blk.Chat)
}
