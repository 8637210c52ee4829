package notification

import (
	"context"
	"log/slog"
	"time"
)

// Sink receives events on the consumer side of the channel publisher. The
// real delivery collaborator (email/SMS fan-out) sits behind this seam.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// ChannelPublisher buffers events in-process. Emit never blocks the calling
// transition: when the buffer is full the event is dropped and logged.
type ChannelPublisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelPublisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "notification buffer full, dropping event",
			"kind", event.Kind,
			"exeat_id", event.ExeatID.String(),
		)
	}
}

// Inbox exposes the consumer end for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event { return p.inbox }

// Worker consumes events from a channel publisher and hands them to a sink.
// It keeps background processing testable without wiring queue
// implementations.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run delivers events until the context is cancelled. Delivery failures are
// logged and dropped; the lifecycle that emitted the event has already
// committed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Deliver(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "notification delivery failed",
					"kind", event.Kind,
					"exeat_id", event.ExeatID.String(),
					"error", err,
				)
			}
		}
	}
}

// LogSink is the development sink: it just logs deliveries.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Deliver(ctx context.Context, event Event) error {
	s.Logger.InfoContext(ctx, "notification",
		"kind", event.Kind,
		"exeat_id", event.ExeatID.String(),
		"student_id", event.StudentID.String(),
	)
	return nil
}
