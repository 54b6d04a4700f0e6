package sink_test

import (
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/event"
	"board-lab/mocks"
	"board-lab/sink"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func received(board uuid.UUID, content string) event.MessageReceived {
	msg := chat.NewMessage(domain.NewProfile("alice", domain.IconCool), content, time.Now())
	return event.MessageReceived{Board: board, Message: msg}
}

func TestHistorySink_Consume(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIMessageRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := sink.NewHistorySink(repository, logger)
	evt := received(uuid.New(), "hello")

	// Then only chat messages reach the repository
	repository.EXPECT().StoreMessage(evt.Board, evt.Message).Return(nil)

	req.NoError(s.Consume(context.Background(), evt))
	req.NoError(s.Consume(context.Background(), event.ObjectChanged{Board: evt.Board}))
}

func TestHistorySink_SurfacesRepositoryError(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIMessageRepository(ctrl)
	s := sink.NewHistorySink(repository, slog.Default())
	repository.EXPECT().StoreMessage(gomock.Any(), gomock.Any()).Return(fmt.Errorf("disk full"))

	req.Error(s.Consume(context.Background(), received(uuid.New(), "hello")))
}

func TestSearchSink_Consume(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	board := uuid.New()

	t.Run("Flush triggered by size limit", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		index := mocks.NewMockIMessageIndex(ctrl)
		s := sink.NewSearchSink(index, logger, 3, 10*time.Second)

		index.EXPECT().Index(board, gomock.Any()).Return(nil).Times(3)

		for i := 0; i < 3; i++ {
			req.NoError(s.Consume(ctx, received(board, fmt.Sprintf("message %d", i))))
		}
		req.Zero(s.Pending())
	})

	t.Run("Flush triggered by timeout (asynchronous)", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		index := mocks.NewMockIMessageIndex(ctrl)
		timeout := 20 * time.Millisecond
		s := sink.NewSearchSink(index, logger, 100, timeout)

		done := make(chan struct{})
		index.EXPECT().Index(board, gomock.Any()).DoAndReturn(func(uuid.UUID, chat.Message) error {
			close(done)
			return nil
		})

		req.NoError(s.Consume(ctx, received(board, "alone")))
		req.Equal(1, s.Pending())

		select {
		case <-done:
		case <-time.After(time.Second):
			req.Fail("timer flush never happened")
		}
	})

	t.Run("Index failure is reported", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		index := mocks.NewMockIMessageIndex(ctrl)
		s := sink.NewSearchSink(index, logger, 1, time.Second)
		index.EXPECT().Index(gomock.Any(), gomock.Any()).Return(fmt.Errorf("index closed"))

		req.Error(s.Consume(ctx, received(board, "lost")))
	})

	t.Run("Concurrent access safety", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		index := mocks.NewMockIMessageIndex(ctrl)
		s := sink.NewSearchSink(index, logger, 10, 5*time.Second)
		index.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil).Times(100)

		var wg sync.WaitGroup
		for w := 0; w < 10; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 10; i++ {
					_ = s.Consume(ctx, received(board, "busy"))
				}
			}()
		}
		wg.Wait()
		req.NoError(s.Flush())
		req.Zero(s.Pending())
	})

	t.Run("Other events are ignored", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		index := mocks.NewMockIMessageIndex(ctrl)
		s := sink.NewSearchSink(index, logger, 1, time.Second)

		req.NoError(s.Consume(ctx, event.ObjectChanged{Board: board}))
		req.Zero(s.Pending())
	})
}

func TestActivitySink_KeepsLatestChanges(t *testing.T) {
	req := require.New(t)
	s := sink.NewActivitySink(2)
	board := uuid.New()
	objects := []domain.WhiteboardObject{
		domain.NewWhiteboardObject(domain.ObjectText, domain.Point{}, domain.Size{}),
		domain.NewWhiteboardObject(domain.ObjectText, domain.Point{}, domain.Size{}),
		domain.NewWhiteboardObject(domain.ObjectText, domain.Point{}, domain.Size{}),
	}

	for _, obj := range objects {
		req.NoError(s.Consume(context.Background(), event.ObjectChanged{Board: board, Object: obj, Change: event.ObjectAdded}))
	}
	req.NoError(s.Consume(context.Background(), received(board, "not a change")))

	recent := s.Recent()
	req.Len(recent, 2)
	req.Equal(objects[1].ID, recent[0].Object.ID)
	req.Equal(objects[2].ID, recent[1].Object.ID)
}
