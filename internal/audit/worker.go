package audit

import (
	"context"
	"log/slog"
)

// Inbox is a buffered, non-blocking Publisher. Emit never stalls a registry
// operation; when the buffer is full the event is dropped and counted against
// the log instead.
type Inbox struct {
	ch     chan Event
	logger *slog.Logger
}

func NewInbox(size int, logger *slog.Logger) *Inbox {
	return &Inbox{ch: make(chan Event, size), logger: logger}
}

func (i *Inbox) Emit(_ context.Context, event Event) error {
	select {
	case i.ch <- Stamp(event):
	default:
		i.logger.Warn("audit inbox full, dropping event",
			"action", string(event.Action),
			"actor", event.Actor.String(),
		)
	}
	return nil
}

// Worker drains an Inbox into a sink Publisher. It keeps background delivery
// off the request path without wiring queue implementations into services.
type Worker struct {
	sink   Publisher
	inbox  *Inbox
	logger *slog.Logger
}

func NewWorker(sink Publisher, inbox *Inbox, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox.ch:
			if err := w.sink.Emit(ctx, event); err != nil {
				w.logger.Error("audit sink emit failed",
					"action", string(event.Action),
					"error", err.Error(),
				)
			}
		}
	}
}
