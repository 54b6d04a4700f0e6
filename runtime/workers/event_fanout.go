package workers

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout broadcasts domain events to the permanent sinks (history, search index).
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. Each sink call gets its own timeout so a slow
// sink never holds the others back.
type EventFanout struct {
	log         *slog.Logger
	domainEvent <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, domainEvent <-chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, domainEvent: domainEvent, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.domainEvent:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping domainEvent send")
			return nil
		}
	}
}

// Fanout One sink for each event
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		go func(sink contract.EventSink) {
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := sink.Consume(sinkCtx, evt); err != nil {
				w.log.Warn("Sink failed to consume event", "board", evt.BoardID(), "error", err)
			}
		}(sink)
	}
}
