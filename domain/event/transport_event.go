package event

import "board-lab/domain"

// TransportEvent is emitted by a transport. Each implementation documents which events it produces.
type TransportEvent interface {
	isTransportEvent()
}

// EnvelopeReceived means a payload from a peer is available at Location.
type EnvelopeReceived struct {
	Location string
	Envelope domain.DataEnvelope
}

// PeersFound carries the complete result of the latest scan.
type PeersFound struct {
	Connections []domain.NetworkConnection
}

type PeerLost struct {
	Connection domain.NetworkConnection
}

// ConnectionRequested asks the local side to accept or reject a peer. Respond must be called once.
type ConnectionRequested struct {
	Connection domain.NetworkConnection
	Respond    func(accept bool)
}

type ConnectionFailed struct {
	Err error
}

func (EnvelopeReceived) isTransportEvent()    {}
func (PeersFound) isTransportEvent()          {}
func (PeerLost) isTransportEvent()            {}
func (ConnectionRequested) isTransportEvent() {}
func (ConnectionFailed) isTransportEvent()    {}
