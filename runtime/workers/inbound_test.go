package workers

import (
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestInbound(t *testing.T) (*InboundWorker, *mocks.MockEnvelopeHandler, *mocks.MockEnvelopeHandler, *mocks.MockDiscoveryHandler, chan event.Event) {
	ctrl := gomock.NewController(t)
	chatHandler := mocks.NewMockEnvelopeHandler(ctrl)
	objectHandler := mocks.NewMockEnvelopeHandler(ctrl)
	discovery := mocks.NewMockDiscoveryHandler(ctrl)
	telemetry := make(chan event.Event, 4)
	w := NewInboundWorker(slog.Default(), nil, discovery, telemetry).
		Handle(domain.KindChat, chatHandler).
		Handle(domain.KindWhiteboardObject, objectHandler)
	return w, chatHandler, objectHandler, discovery, telemetry
}

func TestInbound_DispatchIsolatesKinds(t *testing.T) {
	w, chatHandler, objectHandler, _, _ := newTestInbound(t)
	chatEnv := domain.NewEnvelope(uuid.New(), domain.KindChat)
	objectEnv := domain.NewEnvelope(uuid.New(), domain.KindWhiteboardObject)

	// Then a chat envelope only reaches the chat handler and an object envelope only the engine
	chatHandler.EXPECT().Receive("chat-blob", chatEnv).Return(nil).Times(1)
	objectHandler.EXPECT().Receive("object-blob", objectEnv).Return(nil).Times(1)

	w.Dispatch(event.EnvelopeReceived{Location: "chat-blob", Envelope: chatEnv})
	w.Dispatch(event.EnvelopeReceived{Location: "object-blob", Envelope: objectEnv})
}

func TestInbound_FailuresAreDropped(t *testing.T) {
	req := require.New(t)
	w, chatHandler, _, _, telemetry := newTestInbound(t)
	env := domain.NewEnvelope(uuid.New(), domain.KindChat)
	chatHandler.EXPECT().Receive(gomock.Any(), env).Return(fmt.Errorf("bad: %w", errors.ErrDecodeFailure))

	w.Dispatch(event.EnvelopeReceived{Location: "blob", Envelope: env})
	// Given a kind nobody handles
	w.Dispatch(event.EnvelopeReceived{Location: "blob", Envelope: domain.NewEnvelope(uuid.New(), domain.KindPhoto)})

	req.Len(telemetry, 2)
	evt := <-telemetry
	req.Equal(event.InboundDroppedType, evt.Type)
}

func TestInbound_DiscoveryEvents(t *testing.T) {
	w, _, _, discovery, _ := newTestInbound(t)
	conn := domain.NetworkConnection{ID: uuid.New(), Name: "w1"}
	failure := fmt.Errorf("refused")

	discovery.EXPECT().HandleFound([]domain.NetworkConnection{conn})
	discovery.EXPECT().HandleLost(conn)
	discovery.EXPECT().HandleConnectionRequest(conn, gomock.Any())
	discovery.EXPECT().HandleCannotConnect(failure)

	w.Dispatch(event.PeersFound{Connections: []domain.NetworkConnection{conn}})
	w.Dispatch(event.PeerLost{Connection: conn})
	w.Dispatch(event.ConnectionRequested{Connection: conn, Respond: func(bool) {}})
	w.Dispatch(event.ConnectionFailed{Err: failure})
}

func TestInbound_RunStopsWhenEventsClose(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	events := make(chan event.TransportEvent)
	w := NewInboundWorker(slog.Default(), events, mocks.NewMockDiscoveryHandler(ctrl), nil)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()
	close(events)

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Inbound worker did not stop")
	}
}
