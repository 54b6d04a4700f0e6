package memory

import (
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/storage"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestPeer(t *testing.T, network *Network, name string) *Peer {
	db, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return network.NewPeer(uuid.New(), name, storage.NewFileStore(db), 16)
}

func next(t *testing.T, p *Peer) event.TransportEvent {
	select {
	case evt := <-p.Events():
		return evt
	case <-time.After(time.Second):
		t.Fatalf("no transport event for %s", p.name)
		return nil
	}
}

// answer accepts or rejects the next connection request received by host.
func answer(t *testing.T, host *Peer, accept bool) {
	go func() {
		evt := <-host.Events()
		if req, ok := evt.(event.ConnectionRequested); ok {
			req.Respond(accept)
		}
	}()
}

func TestNetwork_Discovery(t *testing.T) {
	req := require.New(t)
	network := NewNetwork(logs.GetLoggerFromLevel(slog.LevelDebug))
	host := newTestPeer(t, network, "host")
	guest := newTestPeer(t, network, "guest")

	// Given a searching guest, nothing advertised yet
	req.NoError(guest.StartSearching())
	req.Empty(next(t, guest).(event.PeersFound).Connections)

	// When the host publishes
	req.NoError(host.StartPublishing(map[string]string{domain.ParticipantsKey: "cool"}))

	// Then the guest gets a full report with the metadata
	found := next(t, guest).(event.PeersFound)
	req.Len(found.Connections, 1)
	req.Equal(host.ID(), found.Connections[0].ID)
	req.Equal("cool", found.Connections[0].Info[domain.ParticipantsKey])

	// When the host stops publishing, it is lost
	host.StopPublishing()
	lost := next(t, guest).(event.PeerLost)
	req.Equal(host.ID(), lost.Connection.ID)
}

func TestNetwork_JoinAndSend(t *testing.T) {
	req := require.New(t)
	network := NewNetwork(slog.Default())
	host := newTestPeer(t, network, "host")
	guest := newTestPeer(t, network, "guest")
	req.NoError(host.StartPublishing(nil))

	// Nobody linked yet
	req.ErrorIs(guest.Send(context.Background(), "anywhere", domain.NewEnvelope(uuid.New(), domain.KindChat)), errors.ErrNoConnectedPeers)

	answer(t, host, true)
	req.NoError(guest.JoinConnection(context.Background(), host.connection()))
	req.Equal([]uuid.UUID{host.ID()}, guest.Linked())

	// When the guest sends a saved payload
	env := domain.NewEnvelope(uuid.New(), domain.KindChat)
	location, err := guest.files.Save(env, []byte("payload"))
	req.NoError(err)
	req.NoError(guest.Send(context.Background(), location, env))

	// Then the host receives it from its own store
	received := next(t, host).(event.EnvelopeReceived)
	req.Equal(env, received.Envelope)
	payload, err := host.files.Load(received.Location)
	req.NoError(err)
	req.Equal([]byte("payload"), payload)

	guest.Disconnect()
	req.Empty(guest.Linked())
	req.Empty(host.Linked())
}

func TestNetwork_JoinRejected(t *testing.T) {
	req := require.New(t)
	network := NewNetwork(slog.Default())
	host := newTestPeer(t, network, "host")
	guest := newTestPeer(t, network, "guest")
	req.NoError(host.StartPublishing(nil))

	answer(t, host, false)
	err := guest.JoinConnection(context.Background(), host.connection())

	req.ErrorIs(err, errors.ErrConnection)
	req.Empty(guest.Linked())
}

func TestNetwork_JoinUnknownOrSilentHost(t *testing.T) {
	req := require.New(t)
	network := NewNetwork(slog.Default())
	host := newTestPeer(t, network, "host")
	guest := newTestPeer(t, network, "guest")

	// Not advertised
	req.ErrorIs(guest.JoinConnection(context.Background(), host.connection()), errors.ErrConnection)

	// Advertised but never answering
	req.NoError(host.StartPublishing(nil))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req.ErrorIs(guest.JoinConnection(ctx, host.connection()), errors.ErrConnection)
}

func TestNetwork_JoinLinksEveryMember(t *testing.T) {
	req := require.New(t)
	network := NewNetwork(slog.Default())
	host := newTestPeer(t, network, "host")
	first := newTestPeer(t, network, "first")
	second := newTestPeer(t, network, "second")
	req.NoError(host.StartPublishing(nil))

	answer(t, host, true)
	req.NoError(first.JoinConnection(context.Background(), host.connection()))
	answer(t, host, true)
	req.NoError(second.JoinConnection(context.Background(), host.connection()))

	req.ElementsMatch([]uuid.UUID{host.ID(), first.ID()}, second.Linked())
	req.ElementsMatch([]uuid.UUID{host.ID(), second.ID()}, first.Linked())
}
