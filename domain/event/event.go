package event

import (
	"board-lab/domain"
	"board-lab/domain/chat"

	"github.com/google/uuid"
)

// DomainEvent is anything worth handing to the fan-out sinks of a session.
type DomainEvent interface {
	BoardID() uuid.UUID
}

// MessageReceived is published once per chat message accepted into the timeline,
// whether it was typed locally or arrived from a peer.
type MessageReceived struct {
	Board   uuid.UUID
	Message chat.Message
	Local   bool
}

func (m MessageReceived) BoardID() uuid.UUID { return m.Board }

// ObjectChanged is published after every committed whiteboard mutation, local or remote.
type ObjectChanged struct {
	Board  uuid.UUID
	Object domain.WhiteboardObject
	Change ChangeKind
}

func (o ObjectChanged) BoardID() uuid.UUID { return o.Board }

type ChangeKind string

const (
	ObjectAdded   ChangeKind = "added"
	ObjectUpdated ChangeKind = "updated"
	ObjectRemoved ChangeKind = "removed"
)
