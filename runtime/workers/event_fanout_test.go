package workers

import (
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/event"
	"board-lab/mocks"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func messageEvent() event.MessageReceived {
	alice := domain.NewProfile("alice", domain.IconCool)
	return event.MessageReceived{Board: uuid.New(), Message: chat.NewMessage(alice, "hi", time.Now())}
}

func TestEventFanout_Fanout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	history := mocks.NewMockEventSink(ctrl)
	search := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, nil, time.Second).Add(history, search)

	done := make(chan struct{})
	var count atomic.Int32
	consume := func(ctx context.Context, evt event.DomainEvent) error {
		if count.Add(1) == 2 {
			close(done)
		}
		return nil
	}
	evt := messageEvent()
	// Given both sinks consume the event
	history.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(consume).Times(1)
	search.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(consume).Times(1)

	// When an event is handled by the worker
	fanout.Fanout(context.Background(), evt)

	// Then every sink received it
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Sinks were not consumed in time")
	}
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	slow := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, nil, 20*time.Millisecond).Add(slow)

	errs := make(chan error, 1)
	slow.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			<-ctx.Done() // Waiting for timeout to trigger cancellation
			errs <- ctx.Err()
			return ctx.Err()
		}).
		Times(1)

	fanout.Fanout(context.Background(), messageEvent())

	// Then the sink context expired
	select {
	case err := <-errs:
		req.ErrorIs(err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		req.Fail("Sink context never expired")
	}
}

func TestEventFanout_Run(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockEventSink(ctrl)
	events := make(chan event.DomainEvent, 1)
	fanout := NewEventFanout(slog.Default(), events, time.Second).Add(sink)

	received := make(chan event.DomainEvent, 1)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
		received <- evt
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()
	evt := messageEvent()
	events <- evt

	select {
	case got := <-received:
		req.Equal(evt, got)
	case <-time.After(time.Second):
		req.Fail("Event was not fanned out")
	}
}
