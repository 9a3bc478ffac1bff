// Package clock supplies the registry's logical timestamps.
//
// The registry orders operations by a monotonic sequence number rather than
// wall-clock time; the provider is injected so tests and replicated
// deployments control the sequence explicitly.
package clock

import "sync/atomic"

// Clock hands out logical timestamps. Next must return strictly increasing
// values; each successful mutating operation consumes exactly one tick.
type Clock interface {
	Next() uint64
}

// Logical is an atomic counter Clock. The zero value starts ticking at 1.
type Logical struct {
	seq atomic.Uint64
}

// NewLogical returns a Logical clock that resumes after last, so a registry
// reloaded from a persistent store keeps its sequence monotonic.
func NewLogical(last uint64) *Logical {
	l := &Logical{}
	l.seq.Store(last)
	return l
}

func (l *Logical) Next() uint64 {
	return l.seq.Add(1)
}

// Manual is a test Clock advanced by hand.
type Manual struct {
	Seq uint64
}

func (m *Manual) Next() uint64 {
	m.Seq++
	return m.Seq
}
