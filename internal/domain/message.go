package domain

import "time"

// Message is a persisted chat message. Admin senders are pushed to one
// recipient; non-admin senders fan out to every connected client.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
