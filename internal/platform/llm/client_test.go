package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func TestIsRetryable(t *testing.T) {
	wrap := func(code int) error {
		return &Error{Op: "generate_text", Err: &openai.Error{StatusCode: code}}
	}
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", wrap(429), true},
		{"server error", wrap(503), true},
		{"timeout status", wrap(408), true},
		{"unauthorized", wrap(401), false},
		{"bad request", wrap(400), false},
		{"cancelled", fmt.Errorf("call: %w", context.Canceled), false},
		{"request deadline", context.DeadlineExceeded, true},
		{"empty reply", &Error{Op: "generate_text", Err: ErrEmptyReply}, true},
		{"plain", errors.New("connection reset"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}

func TestNewClientConfig(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)

	_, err = NewClient(log, Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	_, err = NewClient(log, Config{Provider: ProviderOllama})
	assert.ErrorContains(t, err, "model")

	_, err = NewClient(log, Config{Provider: "bogus", Model: "m"})
	assert.ErrorContains(t, err, "unknown llm provider")

	c, err := NewClient(log, Config{Provider: ProviderOllama, Model: "gemma3"})
	require.NoError(t, err)
	assert.Equal(t, "gemma3", c.Model())
}
