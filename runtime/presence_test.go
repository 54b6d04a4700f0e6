package runtime

import (
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestPresence(t *testing.T, accept AcceptPolicy) (*PresenceManager, *mocks.MockITransport) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockITransport(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewPresenceManager(log, transport, accept), transport
}

func connection(name string, icons string) domain.NetworkConnection {
	return domain.NetworkConnection{ID: uuid.New(), Name: name, Info: map[string]string{domain.ParticipantsKey: icons}}
}

func TestPresence_FoundReplacesPreviousReport(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	transport.EXPECT().StartSearching().Return(nil)
	req.NoError(presence.StartSearching())

	var events []event.PresenceEvent
	presence.OnPresence.Subscribe(func(e event.PresenceEvent) { events = append(events, e) })

	w1, w2, w3 := connection("w1", "cool"), connection("w2", "nerd,bogus"), connection("w3", "angel")

	// When two reports arrive
	presence.HandleFound([]domain.NetworkConnection{w1, w2})
	presence.HandleFound([]domain.NetworkConnection{w3})

	// Then only the latest report is presented
	found := presence.Whiteboards()
	req.Len(found, 1)
	req.Equal(w3.ID, found[0].ID)
	req.Equal([]domain.ProfileIcon{domain.IconAngel}, found[0].ParticipantIcons)
	req.Len(events, 2)
	first := events[0].(event.WhiteboardsFound)
	req.Equal([]domain.ProfileIcon{domain.IconNerd}, first.Whiteboards[1].ParticipantIcons)
}

func TestPresence_LostIsExplicit(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	transport.EXPECT().StartSearching().Return(nil)
	req.NoError(presence.StartSearching())
	w1, w2 := connection("w1", "cool"), connection("w2", "nerd")
	presence.HandleFound([]domain.NetworkConnection{w1, w2})

	var lost []uuid.UUID
	presence.OnPresence.Subscribe(func(e event.PresenceEvent) {
		if l, ok := e.(event.WhiteboardLost); ok {
			lost = append(lost, l.ID)
		}
	})

	presence.HandleLost(w1)

	req.Equal([]uuid.UUID{w1.ID}, lost)
	req.False(presence.IsFound(w1.ID))
	req.True(presence.IsFound(w2.ID))
}

func TestPresence_StopSearchingDiscardsFound(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	transport.EXPECT().StartSearching().Return(nil)
	transport.EXPECT().StopSearching()
	req.NoError(presence.StartSearching())
	presence.HandleFound([]domain.NetworkConnection{connection("w1", "cool")})

	presence.StopSearching()

	req.Empty(presence.Whiteboards())
	// Late reports are ignored
	presence.HandleFound([]domain.NetworkConnection{connection("w2", "cool")})
	req.Empty(presence.Whiteboards())
}

func TestPresence_StartPublishingEncodesIcons(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	transport.EXPECT().StartPublishing(map[string]string{domain.ParticipantsKey: "cool,nerd"}).Return(nil)

	err := presence.StartPublishing([]domain.Profile{
		domain.NewProfile("alice", domain.IconCool),
		domain.NewProfile("bob", domain.IconNerd),
	})

	req.NoError(err)
}

func TestPresence_JoinFailureIsConnectionError(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	wb := domain.Whiteboard{ID: uuid.New(), Name: "retro", ParticipantIcons: []domain.ProfileIcon{domain.IconCool}}
	transport.EXPECT().JoinConnection(gomock.Any(), wb.Connection()).Return(fmt.Errorf("unreachable"))

	err := presence.JoinWhiteboard(context.Background(), wb)

	req.ErrorIs(err, errors.ErrConnection)
	_, joined := presence.Joined()
	req.False(joined)
}

func TestPresence_JoinAndDisconnect(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	wb := domain.Whiteboard{ID: uuid.New(), Name: "retro"}
	transport.EXPECT().JoinConnection(gomock.Any(), gomock.Any()).Return(nil)
	transport.EXPECT().Disconnect()

	req.NoError(presence.JoinWhiteboard(context.Background(), wb))
	joined, ok := presence.Joined()
	req.True(ok)
	req.Equal(wb.ID, joined.ID)

	presence.DisconnectWhiteboard()
	_, ok = presence.Joined()
	req.False(ok)
}

func TestPresence_ConnectionRequestPolicy(t *testing.T) {
	req := require.New(t)
	reject := func(domain.NetworkConnection) bool { return false }
	presence, _ := newTestPresence(t, reject)

	var answer *bool
	presence.HandleConnectionRequest(connection("mallory", ""), func(accept bool) { answer = &accept })

	req.NotNil(answer)
	req.False(*answer)

	accepting, _ := newTestPresence(t, nil)
	accepting.HandleConnectionRequest(connection("bob", ""), func(accept bool) { answer = &accept })
	req.True(*answer)
}

func TestPresence_SecondJoinIsRefused(t *testing.T) {
	req := require.New(t)
	presence, transport := newTestPresence(t, nil)
	first := domain.Whiteboard{ID: uuid.New(), Name: "retro"}
	second := domain.Whiteboard{ID: uuid.New(), Name: "planning"}
	transport.EXPECT().JoinConnection(gomock.Any(), first.Connection()).Return(nil)

	// Given a joined whiteboard
	req.NoError(presence.JoinWhiteboard(context.Background(), first))

	// When another one is joined without disconnecting
	err := presence.JoinWhiteboard(context.Background(), second)

	// Then the transport is not asked and the first one stays joined
	req.ErrorIs(err, errors.ErrConnection)
	joined, ok := presence.Joined()
	req.True(ok)
	req.Equal(first.ID, joined.ID)
}
