package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// Tracing adds otelgin spans; leave off when OTel is not initialized.
	Tracing bool

	AuthMiddleware *httpMW.AuthMiddleware
	HTTPRecorder   observability.HTTPRecorder
	MetricsHandler http.Handler

	HealthHandler *httpH.HealthHandler
	CourseHandler *httpH.CourseHandler
	StudioHandler *httpH.StudioHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = "coursegen-backend"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.HTTPRecorder))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Generation
		if cfg.CourseHandler != nil {
			api.POST("/courses/generate", cfg.CourseHandler.Generate)
			api.GET("/courses/:id/progress", cfg.CourseHandler.Progress)
			api.GET("/courses/:id/events", cfg.CourseHandler.Events)
		}

		// Studio
		if cfg.StudioHandler != nil {
			api.GET("/studio/courses", cfg.StudioHandler.ListCourses)
			api.GET("/studio/courses/:id", cfg.StudioHandler.GetCourse)
			api.PUT("/studio/courses/:id/blocks", cfg.StudioHandler.UpdateBlock)
			api.POST("/studio/courses/:id/blocks/details", cfg.StudioHandler.BlockDetails)
			api.PUT("/studio/courses/:id/blocks/chat", cfg.StudioHandler.Tutor)
			api.GET("/studio/courses/:id/export", cfg.StudioHandler.Export)
		}
	}

	return r
}
