package domain

import "time"

// Notification is the durable record behind every real-time push. The
// WebSocket event is only a low-latency hint; this row is the source of
// truth. Read flag moves forward only, unread to read.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
