// Package lan is the transport used between devices of the same network. Hosts advertise
// with UDP beacons, guests dial the host's /ws endpoint and frames travel over websockets.
// A host forwards every frame it receives to its other guests.
package lan

import (
	"board-lab/codec"
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	errs "board-lab/errors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// AddressKey carries the websocket address of a discovered host in its connection info.
const AddressKey = "address"

var (
	_ contract.ITransport = (*Transport)(nil)
	_ contract.Worker     = (*Transport)(nil)
)

type Config struct {
	ID             uuid.UUID
	Name           string
	ListenAddr     string
	AdvertiseHost  string
	BeaconAddr     string
	BeaconPort     int
	BeaconInterval time.Duration
	PeerTTL        time.Duration
	SendQueue      int
	BufferSize     int
	AnswerTimeout  time.Duration
}

type Transport struct {
	cfg    Config
	log    *slog.Logger
	files  contract.IFileStore
	events chan event.TransportEvent

	mu           sync.Mutex
	listener     net.Listener
	ready        chan struct{}
	links        map[uuid.UUID]*link
	info         map[string]string
	stopPublish  context.CancelFunc
	stopSearch   context.CancelFunc
	searchAddr   *net.UDPAddr
	seen         map[uuid.UUID]sighting
	closeOnce    sync.Once
}

type sighting struct {
	conn     domain.NetworkConnection
	lastSeen time.Time
}

func New(cfg Config, files contract.IFileStore, log *slog.Logger) *Transport {
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = 30 * time.Second
	}
	return &Transport{
		cfg:    cfg,
		log:    log,
		files:  files,
		events: make(chan event.TransportEvent, cfg.BufferSize),
		ready:  make(chan struct{}),
		links:  make(map[uuid.UUID]*link),
		seen:   make(map[uuid.UUID]sighting),
	}
}

func (t *Transport) Events() <-chan event.TransportEvent {
	return t.events
}

func (t *Transport) emit(evt event.TransportEvent) {
	select {
	case t.events <- evt:
	default:
		t.log.Warn("Transport event dropped, consumer too slow", "event", fmt.Sprintf("%T", evt))
	}
}

// Run serves the /ws endpoint until ctx is done, then closes every link.
func (t *Transport) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", t.cfg.ListenAddr, err)
	}
	t.mu.Lock()
	t.listener = ln
	t.mu.Unlock()
	t.closeOnce.Do(func() { close(t.ready) })

	srv := &http.Server{Handler: t.router(ctx), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	t.log.Info("LAN transport listening", "address", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		t.shutdown()
		return nil
	case err := <-serveErr:
		t.shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr is the address the endpoint listens on, it blocks until Run started listening.
func (t *Transport) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.ready:
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.listener.Addr(), nil
}

func (t *Transport) shutdown() {
	t.StopPublishing()
	t.StopSearching()
	t.Disconnect()
}

// advertisedAddress is host:port as reachable by the other devices.
func (t *Transport) advertisedAddress() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener == nil {
		return ""
	}
	_, port, _ := net.SplitHostPort(t.listener.Addr().String())
	return net.JoinHostPort(t.cfg.AdvertiseHost, port)
}

func (t *Transport) addLink(l *link) {
	t.mu.Lock()
	old := t.links[l.peer.ID]
	t.links[l.peer.ID] = l
	t.mu.Unlock()
	if old != nil {
		old.close()
	}
}

// removeLink forgets a link whose socket ended. Losing the host surfaces as ConnectionFailed.
func (t *Transport) removeLink(l *link) {
	t.mu.Lock()
	active := t.links[l.peer.ID] == l
	if active {
		delete(t.links, l.peer.ID)
	}
	t.mu.Unlock()
	l.close()
	if active && !l.inbound {
		t.emit(event.ConnectionFailed{Err: fmt.Errorf("lost %s: %w", l.peer.Name, errs.ErrConnection)})
	}
}

func (t *Transport) linksExcept(id uuid.UUID) []*link {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Filter(lo.Values(t.links), func(l *link, _ int) bool { return l.peer.ID != id })
}

// Linked reports the peers currently connected.
func (t *Transport) Linked() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Keys(t.links)
}

func (t *Transport) Disconnect() {
	t.mu.Lock()
	links := lo.Values(t.links)
	t.links = make(map[uuid.UUID]*link)
	t.mu.Unlock()
	for _, l := range links {
		l.close()
	}
}

// Send frames the payload saved at location and queues it on every link.
// A full link queue drops the frame for that peer only and reports ErrBackpressure.
func (t *Transport) Send(_ context.Context, location string, env domain.DataEnvelope) error {
	targets := t.linksExcept(uuid.Nil)
	if len(targets) == 0 {
		return errs.ErrNoConnectedPeers
	}
	payload, err := t.files.Load(location)
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", location, err, errs.ErrPersistenceFailure)
	}
	frame := codec.MarshalFrame(codec.Frame{Envelope: env, Payload: payload})

	var failed []error
	for _, l := range targets {
		if err := l.trySend(frame); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", l.peer.Name, err))
		}
	}
	return errors.Join(failed...)
}

// receive stores a frame payload locally and surfaces the envelope. When from is one of
// our guests, the raw frame is forwarded to the others.
func (t *Transport) receive(from *link, data []byte) {
	frame, err := codec.UnmarshalFrame(data)
	if err != nil {
		t.log.Warn("Frame dropped", "peer", from.peer.Name, "error", err)
		return
	}
	if from.inbound {
		for _, l := range t.linksExcept(from.peer.ID) {
			if err := l.trySend(data); err != nil {
				t.log.Warn("Frame not forwarded", "peer", l.peer.Name, "error", err)
			}
		}
	}
	location, err := t.files.Save(frame.Envelope, frame.Payload)
	if err != nil {
		t.log.Error("Frame payload not saved", "id", frame.Envelope.ID, "error", err)
		return
	}
	t.emit(event.EnvelopeReceived{Location: location, Envelope: frame.Envelope})
}
