package models

import "time"

// Message is one entry of a conversation's message list. Reactions holds the
// aggregate emoji counts across all users; the viewer's own reactions are
// tracked separately by the engine.
type Message struct {
	ID             int64          `json:"id"`
	ConversationID int64          `json:"conversation_id"`
	SenderID       int64          `json:"sender_id"`
	Content        string         `json:"content"`
	SentAt         time.Time      `json:"sent_at"`
	Reactions      map[string]int `json:"reactions,omitempty"`
}

// Pending reports whether the message is still an optimistic placeholder.
// Server ids are always positive; placeholders are negative.
func (m Message) Pending() bool {
	return m.ID < 0
}

// CreatedMessage is the backend's response to a message create request.
type CreatedMessage struct {
	ID       int64     `json:"id"`
	SenderID int64     `json:"sender_id"`
	SentAt   time.Time `json:"sent_at"`
}

// Push event types announced by the session stream.
const (
	EventMessageNew     = "message:new"
	EventMessageDeleted = "message:deleted"
	EventReactionUpdate = "reaction:update"
)

// PushEvent is broadcast by the backend whenever a conversation changes.
type PushEvent struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversation_id"`
	MessageID      int64  `json:"message_id,omitempty"`
}
