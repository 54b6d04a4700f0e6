package runtime

import (
	"board-lab/codec"
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/mocks"
	"board-lab/moderation"
	"board-lab/projection"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRelay(t *testing.T) (*ChatRelay, *mocks.MockIBroadcaster, *mocks.MockIFileStore) {
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	files := mocks.NewMockIFileStore(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewChatRelay(log, files, broadcaster, projection.NewTimeline()), broadcaster, files
}

func TestChatRelay_Send(t *testing.T) {
	req := require.New(t)
	relay, broadcaster, files := newTestRelay(t)
	alice := domain.NewProfile("alice", domain.IconCool)
	domainEvents := make(chan event.DomainEvent, 1)
	relay.WithEvents(domainEvents, nil)
	relay.SetBoard(uuid.New())

	var saved []byte
	files.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(env domain.DataEnvelope, payload []byte) (string, error) {
		req.Equal(domain.KindChat, env.Kind)
		saved = payload
		return "blob:chat:1", nil
	})
	broadcaster.EXPECT().Enqueue(gomock.Any()).DoAndReturn(func(out contract.Outgoing) bool {
		// Then the already saved location is sent, not the payload
		req.Equal("blob:chat:1", out.Location)
		req.Nil(out.Payload)
		return true
	})

	var received []chat.Message
	relay.OnReceived.Subscribe(func(m chat.Message) { received = append(received, m) })

	msg, err := relay.Send("hello board", alice)

	req.NoError(err)
	req.Equal("hello board", msg.Content)
	decoded, err := codec.UnmarshalMessage(saved)
	req.NoError(err)
	req.Equal(msg.ID, decoded.ID)
	req.Len(received, 1)
	req.Len(relay.Messages(), 1)

	evt := (<-domainEvents).(event.MessageReceived)
	req.True(evt.Local)
	req.Equal(relay.Board(), evt.BoardID())
}

func TestChatRelay_SendAbortsWhenSaveFails(t *testing.T) {
	req := require.New(t)
	relay, broadcaster, files := newTestRelay(t)
	files.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", fmt.Errorf("disk full"))
	broadcaster.EXPECT().Enqueue(gomock.Any()).Times(0)

	_, err := relay.Send("lost words", domain.NewProfile("alice", domain.IconCool))

	req.ErrorIs(err, errors.ErrPersistenceFailure)
	req.Empty(relay.Messages())
}

func TestChatRelay_Receive(t *testing.T) {
	req := require.New(t)
	relay, _, files := newTestRelay(t)
	bob := domain.NewProfile("bob", domain.IconNerd)
	msg := chat.NewMessage(bob, "hi", time.Now())
	env := domain.NewEnvelope(msg.ID, domain.KindChat)
	payload := codec.MarshalMessage(msg)

	// Given the same message delivered twice
	files.EXPECT().Load("remote").Return(payload, nil).Times(2)
	files.EXPECT().Save(env, payload).Return("local", nil).Times(2)

	var cells [][]chat.Cell
	relay.OnCells.Subscribe(func(c []chat.Cell) { cells = append(cells, c) })

	req.NoError(relay.Receive("remote", env))
	req.NoError(relay.Receive("remote", env))

	// Then it is shown once
	req.Len(relay.Messages(), 1)
	req.Len(cells, 1)
	req.Equal(chat.Single, cells[0][0].Position)
}

func TestChatRelay_ReceiveDropsFailures(t *testing.T) {
	req := require.New(t)
	relay, _, files := newTestRelay(t)
	env := domain.NewEnvelope(uuid.New(), domain.KindChat)

	files.EXPECT().Load("gone").Return(nil, fmt.Errorf("no such blob"))
	req.ErrorIs(relay.Receive("gone", env), errors.ErrPersistenceFailure)

	garbage := []byte{0x0a, 0x05, 0x01}
	files.EXPECT().Load("garbled").Return(garbage, nil)
	files.EXPECT().Save(env, garbage).Return("local", nil)
	req.ErrorIs(relay.Receive("garbled", env), errors.ErrDecodeFailure)

	req.Empty(relay.Messages())
}

func TestChatRelay_Moderation(t *testing.T) {
	req := require.New(t)
	relay, broadcaster, files := newTestRelay(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := moderation.NewModerator([]string{"badger"}, '*', log)
	req.NoError(err)
	telemetry := make(chan event.Event, 4)
	relay.WithModerator(mod).WithEvents(nil, telemetry)

	files.EXPECT().Save(gomock.Any(), gomock.Any()).Return("blob", nil)
	broadcaster.EXPECT().Enqueue(gomock.Any()).Return(true)

	msg, err := relay.Send("a badger on the board", domain.NewProfile("alice", domain.IconCool))

	req.NoError(err)
	req.Equal("a ****** on the board", msg.Content)
	hit := <-telemetry
	req.Equal(event.CensorshipHit, hit.Type)
	req.Equal(event.Censored{Word: "badger"}, hit.Payload)
}

func TestChatRelay_Reset(t *testing.T) {
	req := require.New(t)
	relay, broadcaster, files := newTestRelay(t)
	files.EXPECT().Save(gomock.Any(), gomock.Any()).Return("blob", nil)
	broadcaster.EXPECT().Enqueue(gomock.Any()).Return(true)
	_, err := relay.Send("old board", domain.NewProfile("alice", domain.IconCool))
	req.NoError(err)

	var cells [][]chat.Cell
	relay.OnCells.Subscribe(func(c []chat.Cell) { cells = append(cells, c) })

	relay.Reset()

	req.Empty(relay.Messages())
	req.Len(cells, 1)
	req.Empty(cells[0])
}
