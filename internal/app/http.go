package app

import (
	"fmt"
	"strings"

	httpserver "github.com/yungbote/coursegen-backend/internal/http"
	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Course *httpH.CourseHandler
	Studio *httpH.StudioHandler
}

func wireHandlers(log *logger.Logger, svc Services, hub *realtime.SSEHub, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Course: httpH.NewCourseHandler(log, svc.CourseGen, hub),
		Studio: httpH.NewStudioHandler(svc.Studio),
	}
}

// wireAuth returns nil when JWT_SECRET is unset; the API is then open.
func wireAuth(log *logger.Logger, cfg Config) (*httpMW.AuthMiddleware, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Warn("JWT_SECRET not set; /api routes are unauthenticated")
		return nil, nil
	}
	auth, err := httpMW.NewAuthMiddleware(log, cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("init auth middleware: %w", err)
	}
	return auth, nil
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, auth *httpMW.AuthMiddleware, prom *observability.PrometheusRecorder) *httpserver.Server {
	rc := httpserver.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSOrigins,
		Tracing:        cfg.OTelEnabled,
		AuthMiddleware: auth,
		HealthHandler:  handlers.Health,
		CourseHandler:  handlers.Course,
		StudioHandler:  handlers.Studio,
	}
	if prom != nil {
		rc.HTTPRecorder = prom
		rc.MetricsHandler = prom.Handler()
	}
	return httpserver.NewServer(cfg.HTTPAddr, rc)
}
