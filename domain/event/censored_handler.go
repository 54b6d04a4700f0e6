package event

import (
	"log/slog"
	"sync"
)

// CensoredHandler keeps per-word hit counts of the chat moderator.
type CensoredHandler struct {
	mu   sync.Mutex
	log  *slog.Logger
	hits map[string]uint64
}

func NewCensoredHandler(log *slog.Logger) *CensoredHandler {
	return &CensoredHandler{log: log, hits: make(map[string]uint64)}
}

func (h *CensoredHandler) Handle(evt Event) {
	censored, ok := payloadOf[Censored](h.log, evt, CensorshipHit)
	if !ok {
		return
	}
	h.mu.Lock()
	h.hits[censored.Word]++
	count := h.hits[censored.Word]
	h.mu.Unlock()
	h.log.Debug("Censored word", "word", censored.Word, "hits", count)
}

func (h *CensoredHandler) Hits(word string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[word]
}
