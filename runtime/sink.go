package runtime

import (
	"sync"

	"chat-relay/errors"
)

// NotifySink receives content-free "new data available" pokes. Notify must be
// bounded: it either accepts the signal immediately or coalesces/drops it, but
// never blocks the broadcaster.
type NotifySink interface {
	Notify() error
}

// ChannelSink bridges the hub to a long-lived connection handler. The handler
// drains Signals; Notify performs a single non-blocking send. A full buffer is
// not a failure: an undelivered signal already pending covers every append that
// happened since, so later pokes coalesce into it.
type ChannelSink struct {
	signals chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewChannelSink(bufferSize int) *ChannelSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &ChannelSink{signals: make(chan struct{}, bufferSize)}
}

// Signals is drained by the connection's writer goroutine.
func (s *ChannelSink) Signals() <-chan struct{} {
	return s.signals
}

func (s *ChannelSink) Notify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSinkClosed
	}
	select {
	case s.signals <- struct{}{}:
	default:
		// Coalesced: a poke is already pending for this subscriber
	}
	return nil
}

// Close is idempotent. After Close, Notify reports ErrSinkClosed and the hub
// prunes the connection on its next broadcast.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.signals)
}
