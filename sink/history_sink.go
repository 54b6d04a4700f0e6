package sink

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/repositories"
	"context"
	"log/slog"
)

var _ contract.EventSink = HistorySink{}

// HistorySink persists every accepted chat message so /history survives restarts.
type HistorySink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewHistorySink(repository repositories.IMessageRepository, log *slog.Logger) HistorySink {
	return HistorySink{repository: repository, log: log}
}

func (h HistorySink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageReceived:
		return h.repository.StoreMessage(evt.Board, evt.Message)
	default:
		return nil
	}
}
