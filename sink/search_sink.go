package sink

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/repositories"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ contract.EventSink = (*SearchSink)(nil)

// SearchSink feeds the full-text index. Messages are buffered and indexed in batches,
// the flush is triggered either by reaching maxBatch or by flushTimeout.
type SearchSink struct {
	mu           sync.Mutex
	timer        *time.Timer
	index        repositories.IMessageIndex
	log          *slog.Logger
	pending      []event.MessageReceived
	maxBatch     int
	flushTimeout time.Duration
}

func NewSearchSink(index repositories.IMessageIndex, log *slog.Logger, maxBatch int, flushTimeout time.Duration) *SearchSink {
	return &SearchSink{
		index:        index,
		log:          log,
		maxBatch:     max(maxBatch, 1),
		flushTimeout: flushTimeout,
	}
}

func (s *SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessageReceived)
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, evt)

	// First event of a new batch: make sure it is not stuck if the throughput is low.
	if len(s.pending) == 1 && s.timer == nil {
		s.timer = time.AfterFunc(s.flushTimeout, func() {
			if err := s.Flush(); err != nil {
				s.log.Error("Timeout flush failed", "error", err)
			}
		})
	}
	isFull := len(s.pending) >= s.maxBatch
	s.mu.Unlock()

	if isFull {
		return s.Flush()
	}
	return nil
}

// Flush indexes every buffered message. The buffer is swapped under the lock
// so the next batch can fill while this one is written.
func (s *SearchSink) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	var failed int
	for _, evt := range batch {
		if err := s.index.Index(evt.Board, evt.Message); err != nil {
			s.log.Warn("Message not indexed", "id", evt.Message.ID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d messages not indexed", failed, len(batch))
	}
	if len(batch) > 0 {
		s.log.Debug("Batch indexed", "count", len(batch))
	}
	return nil
}

// Pending is the number of messages waiting for the next flush.
func (s *SearchSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
