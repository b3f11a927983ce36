package notify

import (
	"context"
	"time"

	"wellportal/models"

	"go.uber.org/zap"
)

// Sink receives transient notices for one browser session. Notify never
// fails the caller; delivery problems are logged by the implementation.
type Sink interface {
	Notify(ctx context.Context, n models.Notice)
}

// Box stores pending notices per session id until the portal drains them.
type Box interface {
	Push(ctx context.Context, sid string, n models.Notice) error
	Drain(ctx context.Context, sid string) ([]models.Notice, error)
	Forget(ctx context.Context, sid string) error
}

// SinkFor binds box to one session.
func SinkFor(box Box, sid string, logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &boxSink{box: box, sid: sid, logger: logger}
}

type boxSink struct {
	box    Box
	sid    string
	logger *zap.Logger
}

func (s *boxSink) Notify(ctx context.Context, n models.Notice) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := s.box.Push(ctx, s.sid, n); err != nil {
		s.logger.Warn("Failed to queue notice", zap.String("level", n.Level), zap.Error(err))
	}
}

// Discard drops every notice.
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(context.Context, models.Notice) {}

func Success(msg string) models.Notice {
	return models.Notice{Level: models.NoticeSuccess, Message: msg}
}

func Error(msg string) models.Notice {
	return models.Notice{Level: models.NoticeError, Message: msg}
}

func Info(msg string) models.Notice {
	return models.Notice{Level: models.NoticeInfo, Message: msg}
}

// Event is a message-less notice that asks the portal to reload a view.
func Event(name string) models.Notice {
	return models.Notice{Level: models.NoticeInfo, Event: name}
}
