// Package runtime owns the live-connection registry, signal fan-out, and
// worker supervision. It carries no business rules.
package runtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Connection is one registered push channel. Open from Register until
// Deregister or pruning; the transition is one-directional.
type Connection struct {
	ID   uuid.UUID
	sink NotifySink
}

// Hub is the registry of live push connections. Broadcast fans a content-free
// signal out to every connection; a sink that reports failure is pruned so a
// dead subscriber can never stall the broadcaster or the other subscribers.
//
// Hub is safe for concurrent use by multiple goroutines.
type Hub struct {
	log *slog.Logger

	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:         log,
		connections: make(map[uuid.UUID]*Connection),
	}
}

// Register opens a push channel around sink. The caller owns the returned
// Connection until it deregisters it or the sink starts failing.
func (h *Hub) Register(sink NotifySink) *Connection {
	connection := &Connection{ID: uuid.New(), sink: sink}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[connection.ID] = connection

	h.log.Debug("Connection registered", "connection_id", connection.ID, "total", len(h.connections))
	return connection
}

// Deregister is idempotent; removing an unknown connection is a no-op.
func (h *Hub) Deregister(connection *Connection) {
	if connection == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, connection.ID)
}

// Broadcast signals every registered connection that new data exists.
// Delivery is best-effort and per-connection independent: the registry is
// snapshotted first so registration churn during fan-out is safe, each attempt
// is bounded by the sink contract, and a failing sink only costs its own
// connection.
func (h *Hub) Broadcast() {
	connections := h.snapshot()

	var stale []*Connection
	for _, connection := range connections {
		if err := connection.sink.Notify(); err != nil {
			h.log.Debug("Pruning unreachable connection", "connection_id", connection.ID, "error", err)
			stale = append(stale, connection)
		}
	}

	for _, connection := range stale {
		h.Deregister(connection)
	}
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) snapshot() []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()

	connections := make([]*Connection, 0, len(h.connections))
	for _, connection := range h.connections {
		connections = append(connections, connection)
	}
	return connections
}
