package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Publisher accepts audit events. Implementations must tolerate concurrent
// callers; emission failures are the publisher's to surface, never to panic.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Stamp fills the bookkeeping fields an emitter should not have to set.
func Stamp(event Event) Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}

// Recorder is an in-memory Publisher for tests and single-node deployments.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Stamp(event))
	return nil
}

// Events returns a snapshot of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
