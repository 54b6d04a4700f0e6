// Package chat holds chat messages and the grouping rules used to render them.
package chat

import (
	"board-lab/domain"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat message.
type Message struct {
	ID      uuid.UUID // unique identifier, used for duplicate suppression
	Sender  domain.Profile
	Content string
	SentAt  time.Time
}

func NewMessage(sender domain.Profile, content string, sentAt time.Time) Message {
	return Message{ID: uuid.New(), Sender: sender, Content: content, SentAt: sentAt}
}
