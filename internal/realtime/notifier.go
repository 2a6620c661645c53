package realtime

import (
	"context"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// Publisher is anything that can deliver an SSE message: the local hub or a
// cross-process bus.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

type hubPublisher struct{ hub *SSEHub }

// HubPublisher delivers straight to local subscribers.
func HubPublisher(hub *SSEHub) Publisher { return hubPublisher{hub: hub} }

func (p hubPublisher) Publish(_ context.Context, msg SSEMessage) error {
	p.hub.Broadcast(msg)
	return nil
}

// PublisherFunc adapts a plain function, e.g. a console printer.
type PublisherFunc func(ctx context.Context, msg SSEMessage) error

func (f PublisherFunc) Publish(ctx context.Context, msg SSEMessage) error { return f(ctx, msg) }

type multiPublisher []Publisher

// MultiPublisher delivers to every publisher in order and returns the first error.
func MultiPublisher(pubs ...Publisher) Publisher {
	out := make(multiPublisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multiPublisher) Publish(ctx context.Context, msg SSEMessage) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Notifier turns stage transitions and completions into SSE messages on
// course:{request_id}. Delivery is best-effort; failures are logged.
type Notifier struct {
	pub Publisher
	log *logger.Logger
}

func NewNotifier(log *logger.Logger, pub Publisher) *Notifier {
	return &Notifier{pub: pub, log: log.With("component", "CourseNotifier")}
}

func (n *Notifier) NotifyProgress(ctx context.Context, requestID string, upd course.ProgressUpdate) {
	n.publish(ctx, SSEMessage{Channel: CourseChannel(requestID), Event: SSEEventCourseProgress, Data: upd})
}

func (n *Notifier) NotifyCompletion(ctx context.Context, c course.Completion) {
	ev := SSEEventCourseCompleted
	if c.Status == course.CompletionError {
		ev = SSEEventCourseFailed
	}
	n.publish(ctx, SSEMessage{Channel: CourseChannel(c.RequestID), Event: ev, Data: c})
}

func (n *Notifier) publish(ctx context.Context, msg SSEMessage) {
	if n == nil || n.pub == nil {
		return
	}
	if err := n.pub.Publish(context.WithoutCancel(ctx), msg); err != nil {
		n.log.Warn("failed to publish course update", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

// Terminal reports whether msg ends a course's stream.
func Terminal(msg SSEMessage) bool {
	return msg.Event == SSEEventCourseCompleted || msg.Event == SSEEventCourseFailed
}
