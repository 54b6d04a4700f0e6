package runtime

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

// AcceptPolicy decides whether an incoming connection request is accepted.
type AcceptPolicy func(conn domain.NetworkConnection) bool

// AcceptAll accepts every peer, no identity is verified.
func AcceptAll(domain.NetworkConnection) bool { return true }

// PresenceManager advertises the local whiteboard, discovers nearby ones and
// manages the connection to a joined whiteboard.
type PresenceManager struct {
	mu        sync.Mutex
	emitMu    sync.Mutex
	log       *slog.Logger
	transport contract.ITransport
	accept    AcceptPolicy
	found     []domain.Whiteboard
	searching  bool
	connecting bool
	joined     *domain.Whiteboard

	OnPresence Bus[event.PresenceEvent]
}

func NewPresenceManager(log *slog.Logger, transport contract.ITransport, accept AcceptPolicy) *PresenceManager {
	if accept == nil {
		accept = AcceptAll
	}
	return &PresenceManager{log: log, transport: transport, accept: accept}
}

// StartPublishing advertises the icons of the given participants.
func (p *PresenceManager) StartPublishing(participants []domain.Profile) error {
	metadata := domain.ParticipantMetadata(participants)
	if err := p.transport.StartPublishing(metadata); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p.log.Info("Publishing whiteboard", "participants", metadata[domain.ParticipantsKey])
	return nil
}

func (p *PresenceManager) StopPublishing() {
	p.transport.StopPublishing()
}

func (p *PresenceManager) StartSearching() error {
	p.mu.Lock()
	p.searching = true
	p.mu.Unlock()
	if err := p.transport.StartSearching(); err != nil {
		p.mu.Lock()
		p.searching = false
		p.mu.Unlock()
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

// StopSearching stops discovery and forgets every found whiteboard.
func (p *PresenceManager) StopSearching() {
	p.transport.StopSearching()
	p.mu.Lock()
	p.searching = false
	p.found = nil
	p.mu.Unlock()
}

// JoinWhiteboard asks the transport to connect to wb. It fails while another whiteboard is
// joined or being joined, DisconnectWhiteboard comes first.
func (p *PresenceManager) JoinWhiteboard(ctx context.Context, wb domain.Whiteboard) error {
	p.mu.Lock()
	if p.connecting || p.joined != nil {
		p.mu.Unlock()
		return fmt.Errorf("join %s: already connected: %w", wb.Name, errors.ErrConnection)
	}
	p.connecting = true
	p.mu.Unlock()

	err := p.transport.JoinConnection(ctx, wb.Connection())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.connecting = false
	if err != nil {
		return fmt.Errorf("join %s: %w: %w", wb.Name, err, errors.ErrConnection)
	}
	p.joined = lo.ToPtr(wb)
	p.log.Info("Joined whiteboard", "id", wb.ID, "name", wb.Name)
	return nil
}

func (p *PresenceManager) DisconnectWhiteboard() {
	p.transport.Disconnect()
	p.mu.Lock()
	p.joined = nil
	p.mu.Unlock()
}

// Joined returns the whiteboard currently joined, if any.
func (p *PresenceManager) Joined() (domain.Whiteboard, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.joined == nil {
		return domain.Whiteboard{}, false
	}
	return *p.joined, true
}

// Whiteboards returns the result of the latest discovery report.
func (p *PresenceManager) Whiteboards() []domain.Whiteboard {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Whiteboard(nil), p.found...)
}

// HandleFound replaces the found set, reports are never merged.
func (p *PresenceManager) HandleFound(conns []domain.NetworkConnection) {
	whiteboards := lo.Map(conns, func(c domain.NetworkConnection, _ int) domain.Whiteboard {
		return domain.WhiteboardFromConnection(c)
	})
	p.mu.Lock()
	if !p.searching {
		p.mu.Unlock()
		p.log.Debug("Discovery report ignored, not searching", "count", len(conns))
		return
	}
	p.found = whiteboards
	p.emitLocked(event.WhiteboardsFound{Whiteboards: append([]domain.Whiteboard(nil), whiteboards...)})
}

func (p *PresenceManager) HandleLost(conn domain.NetworkConnection) {
	p.mu.Lock()
	p.found = lo.Reject(p.found, func(wb domain.Whiteboard, _ int) bool { return wb.ID == conn.ID })
	p.emitLocked(event.WhiteboardLost{ID: conn.ID})
}

func (p *PresenceManager) HandleConnectionRequest(conn domain.NetworkConnection, respond func(accept bool)) {
	accepted := p.accept(conn)
	respond(accepted)
	p.log.Info("Connection request", "peer", conn.Name, "accepted", accepted)
	p.mu.Lock()
	p.emitLocked(event.PeerConnectionRequested{Connection: conn, Accepted: accepted})
}

func (p *PresenceManager) HandleCannotConnect(err error) {
	p.log.Warn("Cannot connect to peer", "error", err)
	p.mu.Lock()
	p.emitLocked(event.CannotConnect{Err: err})
}

// emitLocked must be called with mu held, it releases it before publishing.
func (p *PresenceManager) emitLocked(evt event.PresenceEvent) {
	p.emitMu.Lock()
	p.mu.Unlock()
	defer p.emitMu.Unlock()
	p.OnPresence.Publish(evt)
}

// IsFound reports whether id is part of the latest discovery report.
func (p *PresenceManager) IsFound(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo.ContainsBy(p.found, func(wb domain.Whiteboard) bool { return wb.ID == id })
}
