package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dbpkg "github.com/yungbote/coursegen-backend/internal/data/db"
	httpserver "github.com/yungbote/coursegen-backend/internal/http"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub
	Server   *httpserver.Server

	dbService    *dbpkg.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads configuration from the environment and wires the whole app.
func New(opts ...Option) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return NewWithConfig(log, cfg, opts...)
}

type options struct {
	publishers []realtime.Publisher
}

type Option func(*options)

// WithPublisher adds a receiver for every course progress message, next to
// the SSE hub or bus.
func WithPublisher(p realtime.Publisher) Option {
	return func(o *options) { o.publishers = append(o.publishers, p) }
}

func NewWithConfig(log *logger.Logger, cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	root, cancel := context.WithCancel(context.Background())

	otelShutdown := observability.InitOTel(root, log, observability.OtelConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTelEndpoint,
		Headers:     observability.ParseHeaders(cfg.OTelHeaders),
		Insecure:    cfg.OTelInsecure,
		SampleRatio: cfg.OTelSampler,
	})

	dbService, err := dbpkg.NewService(log, dbpkg.Config{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbpkg.AutoMigrateAll(dbService.DB()); err != nil {
		cancel()
		_ = dbService.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(root, log, cfg)
	if err != nil {
		cancel()
		_ = dbService.Close()
		return nil, err
	}

	var prom *observability.PrometheusRecorder
	var rec observability.Recorder = observability.NoopRecorder{}
	if cfg.MetricsEnabled {
		prom = observability.NewPrometheusRecorder(nil)
		rec = prom
	}

	hub := realtime.NewSSEHub(log)
	reposet := wireRepos(dbService.DB(), log)
	serviceset := wireServices(root, log, cfg, reposet, clients, hub, rec, o.publishers...)

	auth, err := wireAuth(log, cfg)
	if err != nil {
		cancel()
		_ = clients.Close()
		_ = dbService.Close()
		return nil, err
	}
	server := wireServer(log, cfg, wireHandlers(log, serviceset, hub, dbService), auth, prom)

	return &App{
		Log:          log,
		DB:           dbService.DB(),
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		SSEHub:       hub,
		Server:       server,
		dbService:    dbService,
		otelShutdown: otelShutdown,
		cancel:       cancel,
	}, nil
}

// Start launches background loops: the cross-replica SSE forwarder when a
// bus is configured.
func (a *App) Start(ctx context.Context) error {
	if a == nil {
		return errors.New("app not initialized")
	}
	if a.Clients.SSEBus == nil {
		return nil
	}
	return a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast)
}

// Run blocks serving HTTP until Shutdown.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

// Close cancels in-flight builds, waits for them to record their outcome, and
// releases every client.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.CourseGen != nil {
		a.Services.CourseGen.Wait()
	}
	if err := a.Clients.Close(); err != nil {
		a.Log.Warn("closing clients failed", "error", err)
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("closing database failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
