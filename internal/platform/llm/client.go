package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// Client is the text generation service used by the course pipeline.
type Client interface {
	// GenerateText returns the raw assistant reply (markdown for every course prompt).
	GenerateText(ctx context.Context, system string, user string) (string, error)

	// GenerateJSON asks for a reply constrained to the given JSON schema.
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)

	Model() string
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

const defaultOllamaBaseURL = "http://localhost:11434/v1/"

type client struct {
	log         *logger.Logger
	api         openai.Client
	model       string
	temperature float64
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	opts := []option.RequestOption{
		// Stage-level retry owns backoff.
		option.WithMaxRetries(0),
	}
	switch cfg.Provider {
	case ProviderOllama:
		base := strings.TrimSpace(cfg.BaseURL)
		if base == "" {
			base = defaultOllamaBaseURL
		}
		key := strings.TrimSpace(cfg.APIKey)
		if key == "" {
			key = "ollama"
		}
		opts = append(opts, option.WithBaseURL(base), option.WithAPIKey(key))
	case ProviderOpenAI, "":
		key := strings.TrimSpace(cfg.APIKey)
		if key == "" {
			return nil, fmt.Errorf("missing OPENAI_API_KEY")
		}
		opts = append(opts, option.WithAPIKey(key))
		if base := strings.TrimSpace(cfg.BaseURL); base != "" {
			opts = append(opts, option.WithBaseURL(base))
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &client{
		log:         log.With("service", "LLMClient", "provider", string(cfg.Provider), "model", model),
		api:         openai.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *client) Model() string { return c.model }

func (c *client) params(system, user string) openai.ChatCompletionNewParams {
	msgs := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(system)}
	if strings.TrimSpace(user) != "" {
		msgs = append(msgs, openai.UserMessage(user))
	}
	p := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	}
	if c.temperature > 0 {
		p.Temperature = openai.Float(c.temperature)
	}
	return p
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, c.params(system, user))
	if err != nil {
		c.log.Warn("chat completion failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", &Error{Op: "generate_text", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Op: "generate_text", Err: ErrEmptyReply}
	}
	text := resp.Choices[0].Message.Content
	c.log.Debug("chat completion ok",
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"response", text,
	)
	if strings.TrimSpace(text) == "" {
		return "", &Error{Op: "generate_text", Err: ErrEmptyReply}
	}
	return text, nil
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	p := c.params(system, user)
	p.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   schemaName,
				Schema: schema,
				Strict: openai.Bool(true),
			},
		},
	}
	resp, err := c.api.Chat.Completions.New(ctx, p)
	if err != nil {
		return nil, &Error{Op: "generate_json", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Op: "generate_json", Err: ErrEmptyReply}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, &Error{Op: "generate_json", Err: fmt.Errorf("decode %s: %w", schemaName, err)}
	}
	return out, nil
}

var ErrEmptyReply = errors.New("llm returned an empty reply")

type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "llm " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether a failed generation may succeed on a later attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch code := apiErr.StatusCode; {
		case code == http.StatusRequestTimeout, code == http.StatusConflict, code == http.StatusTooManyRequests:
			return true
		case code >= 500:
			return true
		default:
			return false
		}
	}
	// Network failures, request timeouts and unparseable replies.
	return true
}
