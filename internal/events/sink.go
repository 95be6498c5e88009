package events

import (
	"context"
	"log/slog"

	"clinicbook/internal/domain"
)

// Sink receives appointment lifecycle notifications. Publishing is
// fire-and-forget from the scheduler's point of view: a sink failure never
// blocks or reverses a committed booking decision.
type Sink interface {
	Publish(ctx context.Context, e domain.Event) error
}

type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log.With(slog.String("component", "events"))}
}

func (s *LogSink) Publish(ctx context.Context, e domain.Event) error {
	s.log.Info("appointment event", slog.String("event", e.EventName()), slog.Any("payload", e))
	return nil
}
