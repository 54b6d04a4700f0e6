package event

import (
	"board-lab/domain"

	"github.com/google/uuid"
)

// PresenceEvent is published by the presence manager.
type PresenceEvent interface {
	isPresenceEvent()
}

// WhiteboardsFound replaces the whole set of discovered whiteboards.
type WhiteboardsFound struct {
	Whiteboards []domain.Whiteboard
}

type WhiteboardLost struct {
	ID uuid.UUID
}

type PeerConnectionRequested struct {
	Connection domain.NetworkConnection
	Accepted   bool
}

type CannotConnect struct {
	Err error
}

func (WhiteboardsFound) isPresenceEvent()        {}
func (WhiteboardLost) isPresenceEvent()          {}
func (PeerConnectionRequested) isPresenceEvent() {}
func (CannotConnect) isPresenceEvent()           {}
