package models

import "fmt"

// Participant is one member of a conversation, with the label the messaging
// view renders for them.
type Participant struct {
	UserID       int64  `json:"user_id"`
	DisplayLabel string `json:"display_label"`
}

// Conversation groups a participant list under a conversation id. Participants
// are refreshed independently of messages.
type Conversation struct {
	ID           int64         `json:"id"`
	Participants []Participant `json:"participants"`
}

// LabelFor resolves the display label for a sender. Unknown senders fall back
// to "#<id>".
func (c Conversation) LabelFor(userID int64) string {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p.DisplayLabel
		}
	}
	return fmt.Sprintf("#%d", userID)
}
