package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecretsAndTruncatesPayloads(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")
	redactionOn()

	long := strings.Repeat("x", truncateAt+40)
	out := sanitizeKVs([]interface{}{
		"api_key", "sk-123",
		"prompt", long,
		"stage", "course_outline",
		"dangling",
	})

	if len(out) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	prompt, _ := out[3].(string)
	if !strings.HasPrefix(prompt, strings.Repeat("x", truncateAt)) || !strings.Contains(prompt, "40 more bytes") {
		t.Fatalf("prompt not truncated: %q", prompt)
	}
	if out[5] != "course_outline" {
		t.Fatalf("plain value changed: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[6])
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("service", "x").Info("hello", "k", "v")
	log.Sync()
}
