package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/platform/llm"
	"github.com/yungbote/coursegen-backend/internal/platform/llm/llmtest"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime/bus"
)

type Clients struct {
	LLM       llm.Client
	Artifacts artifacts.Store
	// SSEBus is nil unless REDIS_ADDR is set.
	SSEBus bus.Bus

	closeArtifacts closeFunc
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := newLLMClient(log, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}

	store, closeStore, err := resolveArtifactStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}

	// Redis
	var sseBus bus.Bus
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := bus.NewRedisBus(log, bus.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Pattern:  cfg.RedisPattern,
		})
		if err != nil {
			_ = closeStore()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	return Clients{
		LLM:            ai,
		Artifacts:      store,
		SSEBus:         sseBus,
		closeArtifacts: closeStore,
	}, nil
}

func newLLMClient(log *logger.Logger, cfg Config) (llm.Client, error) {
	if cfg.LLMProvider == LLMProviderFake {
		log.Warn("Using the offline fixture LLM; generated courses are canned")
		return llmtest.Fixture(), nil
	}
	return llm.NewClient(log, llm.Config{
		Provider:    llm.Provider(cfg.LLMProvider),
		Model:       cfg.LLMModel,
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Temperature: cfg.LLMTemperature,
		Timeout:     time.Duration(cfg.LLMTimeout) * time.Second,
	})
}

func (c Clients) Close() error {
	var firstErr error
	if c.SSEBus != nil {
		if err := c.SSEBus.Close(); err != nil {
			firstErr = err
		}
	}
	if c.closeArtifacts != nil {
		if err := c.closeArtifacts(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
