package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	ParticipantsKey      = "participants"
	participantSeparator = ","
)

type Point struct {
	X float64
	Y float64
}

type Size struct {
	Width  float64
	Height float64
}

type ObjectKind string

const (
	ObjectGeneric ObjectKind = "generic"
	ObjectText    ObjectKind = "text"
	ObjectDrawing ObjectKind = "drawing"
	ObjectPhoto   ObjectKind = "photo"
)

// WhiteboardObject is a drawable item. SelectedBy is nil when nobody holds the selection lock.
type WhiteboardObject struct {
	ID         uuid.UUID
	Kind       ObjectKind
	Position   Point
	Size       Size
	SelectedBy *Profile
	Text       string
	Points     []Point
	PhotoID    uuid.UUID
}

func NewWhiteboardObject(kind ObjectKind, position Point, size Size) WhiteboardObject {
	return WhiteboardObject{ID: uuid.New(), Kind: kind, Position: position, Size: size}
}

// Clone returns a copy sharing no memory with the receiver.
func (o WhiteboardObject) Clone() WhiteboardObject {
	c := o
	if o.SelectedBy != nil {
		c.SelectedBy = lo.ToPtr(*o.SelectedBy)
	}
	if o.Points != nil {
		c.Points = append([]Point(nil), o.Points...)
	}
	return c
}

// Equal compares every field, the owner by profile id.
func (o WhiteboardObject) Equal(other WhiteboardObject) bool {
	if o.ID != other.ID || o.Kind != other.Kind ||
		o.Position != other.Position || o.Size != other.Size ||
		o.Text != other.Text || o.PhotoID != other.PhotoID {
		return false
	}
	if !o.HeldBy(other.SelectedBy) {
		return false
	}
	if len(o.Points) != len(other.Points) {
		return false
	}
	for i := range o.Points {
		if o.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}

// HeldBy reports whether the lock owner matches p; two nil owners match.
func (o WhiteboardObject) HeldBy(p *Profile) bool {
	switch {
	case o.SelectedBy == nil && p == nil:
		return true
	case o.SelectedBy == nil || p == nil:
		return false
	default:
		return o.SelectedBy.Equal(*p)
	}
}

func (o WhiteboardObject) IsLocked() bool {
	return o.SelectedBy != nil
}

// Whiteboard is a discovered session as advertised by its host.
type Whiteboard struct {
	ID               uuid.UUID
	Name             string
	ParticipantIcons []ProfileIcon
}

// NetworkConnection is the transport-level descriptor of a peer or session.
type NetworkConnection struct {
	ID   uuid.UUID
	Name string
	Info map[string]string
}

// Connection builds the descriptor used to join this whiteboard.
func (w Whiteboard) Connection() NetworkConnection {
	return NetworkConnection{
		ID:   w.ID,
		Name: w.Name,
		Info: map[string]string{ParticipantsKey: EncodeParticipantIcons(w.ParticipantIcons)},
	}
}

// WhiteboardFromConnection maps an advertised connection, skipping unknown icon tokens.
func WhiteboardFromConnection(conn NetworkConnection) Whiteboard {
	return Whiteboard{
		ID:               conn.ID,
		Name:             conn.Name,
		ParticipantIcons: DecodeParticipantIcons(conn.Info[ParticipantsKey]),
	}
}

func EncodeParticipantIcons(icons []ProfileIcon) string {
	return strings.Join(lo.Map(icons, func(icon ProfileIcon, _ int) string {
		return string(icon)
	}), participantSeparator)
}

func DecodeParticipantIcons(raw string) []ProfileIcon {
	if raw == "" {
		return nil
	}
	return lo.FilterMap(strings.Split(raw, participantSeparator), func(token string, _ int) (ProfileIcon, bool) {
		return ParseProfileIcon(strings.TrimSpace(token))
	})
}

// ParticipantMetadata is the advertisement published for a set of participants.
func ParticipantMetadata(participants []Profile) map[string]string {
	icons := lo.Map(participants, func(p Profile, _ int) ProfileIcon { return p.Icon })
	return map[string]string{ParticipantsKey: EncodeParticipantIcons(icons)}
}
