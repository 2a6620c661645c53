package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/data/repos/progress"
	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/course_build"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/llm/llmtest"
	"github.com/yungbote/coursegen-backend/internal/platform/retry"
	"github.com/yungbote/coursegen-backend/internal/realtime"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type testServer struct {
	engine *gin.Engine
	gen    services.CourseGenService
}

func newTestServer(t *testing.T, auth *httpMW.AuthMiddleware) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	db := testutil.DB(t)
	store, err := artifacts.NewLocalStore(log, t.TempDir())
	require.NoError(t, err)

	rec := observability.NewPrometheusRecorder(nil)
	hub := realtime.NewSSEHub(log)
	notifier := realtime.NewNotifier(log, realtime.HubPublisher(hub))

	requests := progress.NewCourseRequestRepo(db, log)
	stages := progress.NewStageProgressRepo(db, log)
	engine := orchestrator.NewEngine(log, store)
	engine.Store = services.NewProgressStore(log, stages)
	engine.Notifier = notifier
	engine.Recorder = rec

	ai := llmtest.Fixture()
	policy := retry.Policy{Base: time.Millisecond, Max: time.Millisecond, MaxElapsed: time.Second, MaxAttempts: 1}
	pipeline := course_build.NewCourseBuildPipeline(log, ai, store, engine, policy, rec, course_build.Config{FanOutLimit: 2})
	gen := services.NewCourseGenService(context.Background(), log, requests, stages, pipeline, notifier, ai.Model())
	t.Cleanup(gen.Wait)

	r := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: auth,
		HTTPRecorder:   rec,
		MetricsHandler: rec.Handler(),
		HealthHandler:  httpH.NewHealthHandler(),
		CourseHandler:  httpH.NewCourseHandler(log, gen, hub),
		StudioHandler:  httpH.NewStudioHandler(services.NewStudioService(log, requests, store, ai)),
	})
	return testServer{engine: r, gen: gen}
}

func (s testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndStudioFlow(t *testing.T) {
	s := newTestServer(t, nil)

	res := s.do(t, http.MethodPost, "/api/courses/generate", map[string]any{
		"topic": "Sample", "experience": 0, "total_weeks": 1, "hours_per_week": 2, "learning_style": 0, "motivation": 0,
	})
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	var started struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &started))
	require.NotEmpty(t, started.RequestID)
	s.gen.Wait()
	id := started.RequestID

	res = s.do(t, http.MethodGet, "/api/courses/"+id+"/progress", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var rep services.ProgressReport
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &rep))
	assert.Equal(t, "completed", rep.Status)
	assert.Equal(t, 100, rep.Progress)

	res = s.do(t, http.MethodGet, "/api/courses/"+id+"/events", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "event: CourseProgress\n")
	assert.Contains(t, res.Body.String(), "event: CourseCompleted\n")

	res = s.do(t, http.MethodGet, "/api/studio/courses", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"course_id":"`+id+`"`)

	res = s.do(t, http.MethodPut, "/api/studio/courses/"+id+"/blocks", map[string]any{
		"week_topic": "Getting Started", "module_title": "First Project", "block_title": "Exercises", "completed": true,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), `"course_progress":25`)

	res = s.do(t, http.MethodPost, "/api/studio/courses/"+id+"/blocks/details", map[string]any{
		"week_topic": "Getting Started", "module_title": "First Project", "block_title": "Missing",
	})
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), `"code":"block_not_found"`)

	res = s.do(t, http.MethodPut, "/api/studio/courses/"+id+"/blocks", map[string]any{"week_topic": "Getting Started"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodGet, "/api/studio/courses/"+id+"/export?format=html", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, strings.HasPrefix(res.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, res.Body.String(), "Offline Sample Course")

	res = s.do(t, http.MethodGet, "/api/studio/courses/"+id+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPut, "/api/studio/courses/"+id+"/blocks/chat", map[string]any{
		"week_topic": "Getting Started", "module_title": "First Project", "block_title": "Exercises", "question": "Where do I start?",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), `"question":"Where do I start?"`)
	assert.Contains(t, res.Body.String(), "Start from the block objectives")

	res = s.do(t, http.MethodGet, "/api/studio/courses/"+id, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"chat":[{"question":"Where do I start?"`)

	res = s.do(t, http.MethodPut, "/api/studio/courses/"+id+"/blocks/chat", map[string]any{
		"week_topic": "Getting Started", "module_title": "First Project", "block_title": "Exercises",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), `"code":"invalid_question"`)

	res = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "coursegen_stage_results_total")
	assert.Contains(t, res.Body.String(), "coursegen_http_request_duration_seconds")
}

func TestGenerateRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	res := s.do(t, http.MethodPost, "/api/courses/generate", map[string]any{"topic": "", "total_weeks": 1, "hours_per_week": 2})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), `"code":"invalid_input"`)

	res = s.do(t, http.MethodGet, "/api/courses/unknown/progress", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = s.do(t, http.MethodGet, "/api/courses/unknown/events", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = s.do(t, http.MethodGet, "/api/studio/courses/unknown", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestAuthGuardsAPIButNotHealth(t *testing.T) {
	am, err := httpMW.NewAuthMiddleware(testutil.Logger(t), "s3cret", "")
	require.NoError(t, err)
	s := newTestServer(t, am)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthcheck", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/studio/courses", nil).Code)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheckReportsDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		name string
		err  error
		want int
	}{
		{"up", nil, http.StatusOK},
		{"down", assert.AnError, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRouter(RouterConfig{HealthHandler: httpH.NewHealthHandler(stubPinger{err: tc.err})})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
