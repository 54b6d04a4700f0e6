// Package memory is an in-process transport: every Peer of a Network sees the others
// without sockets. Payloads are copied from the sender's file store to the receiver's.
package memory

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ contract.ITransport = (*Peer)(nil)

// Network guards the state of all its peers with a single lock. Events are always
// delivered after the lock is released.
type Network struct {
	mu    sync.Mutex
	log   *slog.Logger
	peers map[uuid.UUID]*Peer
	order []uuid.UUID
}

func NewNetwork(log *slog.Logger) *Network {
	return &Network{log: log, peers: make(map[uuid.UUID]*Peer)}
}

// NewPeer attaches a device to the network. The id is the one advertised to others.
func (n *Network) NewPeer(id uuid.UUID, name string, files contract.IFileStore, bufferSize int) *Peer {
	p := &Peer{
		id:      id,
		name:    name,
		network: n,
		files:   files,
		events:  make(chan event.TransportEvent, bufferSize),
		links:   make(map[uuid.UUID]*Peer),
	}
	n.mu.Lock()
	n.peers[id] = p
	n.order = append(n.order, id)
	n.mu.Unlock()
	return p
}

type delivery struct {
	to  *Peer
	evt event.TransportEvent
}

func (n *Network) deliver(deliveries []delivery) {
	for _, d := range deliveries {
		d.to.emit(d.evt)
	}
}

// advertisedLocked lists the publishing peers other than self, in attachment order.
func (n *Network) advertisedLocked(self uuid.UUID) []domain.NetworkConnection {
	return lo.FilterMap(n.order, func(id uuid.UUID, _ int) (domain.NetworkConnection, bool) {
		p := n.peers[id]
		if id == self || !p.publishing {
			return domain.NetworkConnection{}, false
		}
		return p.connection(), true
	})
}

// foundLocked sends a fresh report to every searching peer.
func (n *Network) foundLocked() []delivery {
	var out []delivery
	for _, id := range n.order {
		p := n.peers[id]
		if p.searching {
			out = append(out, delivery{to: p, evt: event.PeersFound{Connections: n.advertisedLocked(id)}})
		}
	}
	return out
}

func (n *Network) lostLocked(gone domain.NetworkConnection) []delivery {
	var out []delivery
	for _, id := range n.order {
		p := n.peers[id]
		if p.searching && id != gone.ID {
			out = append(out, delivery{to: p, evt: event.PeerLost{Connection: gone}})
		}
	}
	return out
}

// Peer is one device of a Network.
type Peer struct {
	id      uuid.UUID
	name    string
	network *Network
	files   contract.IFileStore
	events  chan event.TransportEvent

	// guarded by network.mu
	publishing bool
	searching  bool
	info       map[string]string
	links      map[uuid.UUID]*Peer
}

func (p *Peer) ID() uuid.UUID { return p.id }

func (p *Peer) connection() domain.NetworkConnection {
	return domain.NetworkConnection{ID: p.id, Name: p.name, Info: lo.Assign(p.info)}
}

func (p *Peer) emit(evt event.TransportEvent) {
	select {
	case p.events <- evt:
	default:
		p.network.log.Warn("Transport event dropped, consumer too slow", "peer", p.name)
	}
}

func (p *Peer) Events() <-chan event.TransportEvent {
	return p.events
}

func (p *Peer) StartPublishing(metadata map[string]string) error {
	n := p.network
	n.mu.Lock()
	p.publishing = true
	p.info = lo.Assign(metadata)
	deliveries := n.foundLocked()
	n.mu.Unlock()
	n.deliver(deliveries)
	return nil
}

func (p *Peer) StopPublishing() {
	n := p.network
	n.mu.Lock()
	if !p.publishing {
		n.mu.Unlock()
		return
	}
	p.publishing = false
	deliveries := n.lostLocked(p.connection())
	n.mu.Unlock()
	n.deliver(deliveries)
}

// StartSearching reports the current advertisements right away.
func (p *Peer) StartSearching() error {
	n := p.network
	n.mu.Lock()
	p.searching = true
	found := event.PeersFound{Connections: n.advertisedLocked(p.id)}
	n.mu.Unlock()
	p.emit(found)
	return nil
}

func (p *Peer) StopSearching() {
	n := p.network
	n.mu.Lock()
	p.searching = false
	n.mu.Unlock()
}

// JoinConnection asks the host to accept this peer. Once accepted, the peer is linked to the
// host and to every peer already linked to it.
func (p *Peer) JoinConnection(ctx context.Context, conn domain.NetworkConnection) error {
	n := p.network
	n.mu.Lock()
	host, ok := n.peers[conn.ID]
	if !ok || !host.publishing {
		n.mu.Unlock()
		return fmt.Errorf("%s is not advertised: %w", conn.Name, errors.ErrConnection)
	}
	me := p.connection()
	n.mu.Unlock()

	answer := make(chan bool, 1)
	host.emit(event.ConnectionRequested{Connection: me, Respond: func(accept bool) {
		select {
		case answer <- accept:
		default:
		}
	}})

	select {
	case <-ctx.Done():
		return fmt.Errorf("join %s: %w: %w", conn.Name, ctx.Err(), errors.ErrConnection)
	case accepted := <-answer:
		if !accepted {
			return fmt.Errorf("%s refused the connection: %w", conn.Name, errors.ErrConnection)
		}
	}

	n.mu.Lock()
	members := append(lo.Values(host.links), host)
	for _, m := range members {
		if m.id == p.id {
			continue
		}
		m.links[p.id] = p
		p.links[m.id] = m
	}
	n.mu.Unlock()
	n.log.Debug("Peer joined", "peer", p.name, "host", conn.Name, "members", len(members))
	return nil
}

// Disconnect leaves every link. Peers left behind stay linked together.
func (p *Peer) Disconnect() {
	n := p.network
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, other := range p.links {
		delete(other.links, p.id)
		delete(p.links, id)
	}
}

// Send hands the payload saved at location to every linked peer, each receiving it in its own store.
func (p *Peer) Send(ctx context.Context, location string, env domain.DataEnvelope) error {
	n := p.network
	n.mu.Lock()
	targets := lo.Values(p.links)
	n.mu.Unlock()
	if len(targets) == 0 {
		return errors.ErrNoConnectedPeers
	}

	payload, err := p.files.Load(location)
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", location, err, errors.ErrPersistenceFailure)
	}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		remote, err := target.files.Save(env, payload)
		if err != nil {
			return fmt.Errorf("hand off to %s: %w: %w", target.name, err, errors.ErrPersistenceFailure)
		}
		target.emit(event.EnvelopeReceived{Location: remote, Envelope: env})
	}
	return nil
}

// Linked reports the ids this peer currently exchanges envelopes with.
func (p *Peer) Linked() []uuid.UUID {
	n := p.network
	n.mu.Lock()
	defer n.mu.Unlock()
	return lo.Keys(p.links)
}
