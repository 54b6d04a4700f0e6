// Package projection builds local timelines from observed messages.
// Handles ordering and deduplication.
// Does not emit events or interact with UI directly.
package projection

import (
	"board-lab/domain/chat"
	"sync"

	"github.com/google/uuid"
)

// Timeline holds the chat messages of one session.
type Timeline struct {
	mu       sync.RWMutex
	seen     map[uuid.UUID]struct{}
	messages []chat.Message
}

func NewTimeline() *Timeline {
	return &Timeline{seen: make(map[uuid.UUID]struct{})}
}

// Append adds msg unless a message with the same id is already there.
func (t *Timeline) Append(msg chat.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[msg.ID]; ok {
		return false
	}
	t.seen[msg.ID] = struct{}{}
	t.messages = append(t.messages, msg)
	return true
}

// Messages returns the messages sorted by SentAt, arrival order on ties.
func (t *Timeline) Messages() []chat.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return chat.Sort(t.messages)
}

func (t *Timeline) Cells() []chat.Cell {
	return chat.Group(t.Messages())
}

// Reset forgets every message, ids included.
func (t *Timeline) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = make(map[uuid.UUID]struct{})
	t.messages = nil
}

func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
