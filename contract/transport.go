//go:generate go run go.uber.org/mock/mockgen -source=transport.go -destination=../mocks/mock_transport.go -package=mocks
package contract

import (
	"board-lab/domain"
	"board-lab/domain/event"
	"context"

	"github.com/google/uuid"
)

// ITransport is the nearby-peer transport the session runs on.
// Implementations report everything asynchronously through Events.
type ITransport interface {
	// StartPublishing advertises this device with the given metadata.
	StartPublishing(metadata map[string]string) error
	StopPublishing()
	StartSearching() error
	StopSearching()
	// JoinConnection connects to an advertised peer. Failures wrap ErrConnection.
	JoinConnection(ctx context.Context, conn domain.NetworkConnection) error
	Disconnect()
	// Send delivers the payload stored at location to every connected peer.
	Send(ctx context.Context, location string, env domain.DataEnvelope) error
	Events() <-chan event.TransportEvent
}

// IFileStore persists payloads so that they can travel out-of-band of the envelope.
type IFileStore interface {
	Save(env domain.DataEnvelope, payload []byte) (string, error)
	Load(location string) ([]byte, error)
}

// Outgoing is an envelope waiting to be broadcast. Location is empty when the payload
// still has to be saved.
type Outgoing struct {
	Envelope domain.DataEnvelope
	Payload  []byte
	Location string
}

// IBroadcaster queues envelopes for asynchronous delivery. Enqueue never blocks and
// reports false when the envelope was dropped.
type IBroadcaster interface {
	Enqueue(out Outgoing) bool
}

// EnvelopeHandler applies one kind of inbound envelope.
type EnvelopeHandler interface {
	Receive(location string, env domain.DataEnvelope) error
}

// DiscoveryHandler reacts to discovery and connection lifecycle events.
type DiscoveryHandler interface {
	HandleFound(conns []domain.NetworkConnection)
	HandleLost(conn domain.NetworkConnection)
	HandleConnectionRequest(conn domain.NetworkConnection, respond func(accept bool))
	HandleCannotConnect(err error)
}

// IPhotoRepository stores pictures referenced by photo objects.
type IPhotoRepository interface {
	SavePhoto(id uuid.UUID, data []byte) (string, error)
	LoadPhoto(id uuid.UUID) ([]byte, error)
}
