package domain

import "github.com/google/uuid"

// DataKind tells the receiver how to decode the payload travelling with an envelope.
type DataKind int

const (
	KindUnknown DataKind = iota
	KindChat
	KindWhiteboardObject
	KindPhoto
)

var dataKindNames = map[DataKind]string{
	KindChat:             "chat",
	KindWhiteboardObject: "whiteboardObject",
	KindPhoto:            "photo",
}

func (k DataKind) String() string {
	if name, ok := dataKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseDataKind maps a wire discriminator to a kind, KindUnknown when it is not recognized.
func ParseDataKind(name string) DataKind {
	for kind, n := range dataKindNames {
		if n == name {
			return kind
		}
	}
	return KindUnknown
}

// DataEnvelope is the routing metadata sent alongside every payload.
type DataEnvelope struct {
	ID        uuid.UUID
	Kind      DataKind
	IsDeleted bool
}

func NewEnvelope(id uuid.UUID, kind DataKind) DataEnvelope {
	return DataEnvelope{ID: id, Kind: kind}
}
