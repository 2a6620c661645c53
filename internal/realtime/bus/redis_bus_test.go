package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

func TestNewRedisBusRequiresAddr(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if _, err := NewRedisBus(log, Config{}); err == nil {
		t.Fatalf("expected error for missing address")
	}
	if _, err := NewRedisBus(nil, Config{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error for missing logger")
	}
}

func TestRedisBusForwardsCourseChannels(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	b, err := NewRedisBus(log, Config{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan realtime.SSEMessage, 1)
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { got <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	channel := realtime.CourseChannel(uuid.NewString())
	if err := b.Publish(ctx, realtime.SSEMessage{Channel: channel, Event: realtime.SSEEventCourseProgress}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case m := <-got:
		if m.Channel != channel || m.Event != realtime.SSEEventCourseProgress {
			t.Fatalf("unexpected message %+v", m)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for forwarded message")
	}
}
