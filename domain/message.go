// Package domain holds the value types shared across layers.
package domain

import "time"

// Message is one entry of the append-only log.
// Position is the log's total order: strictly increasing, gap-free, 1-based.
// A Message is immutable once appended.
type Message struct {
	Position  uint64    `json:"position"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
