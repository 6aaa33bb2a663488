package runtime

import (
	"context"
	"log/slog"
)

// Notifier decouples message appends from fan-out: the service dispatches a
// wake-up after each committed append, the worker turns it into a hub
// broadcast. Dispatch never blocks; a full channel means a broadcast is
// already on its way and will cover this append too.
type Notifier struct {
	log   *slog.Logger
	hub   *Hub
	wakes chan struct{}
}

func NewNotifier(log *slog.Logger, hub *Hub, bufferSize int) *Notifier {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Notifier{log: log, hub: hub, wakes: make(chan struct{}, bufferSize)}
}

// Dispatch requests a broadcast. Safe to call from any goroutine.
func (n *Notifier) Dispatch() {
	select {
	case n.wakes <- struct{}{}:
	default:
		// A pending wake-up already covers this append
	}
}

// Run consumes wake-ups until the context is done. Runs under the supervisor.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-n.wakes:
			n.hub.Broadcast()
		case <-ctx.Done():
			n.log.Debug("Context done, stopping notifier")
			return nil
		}
	}
}
