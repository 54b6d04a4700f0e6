package event

import "log/slog"

// ChannelCapacityHandler warns when a session queue has fewer than lowCapacityThreshold free slots.
// Past that point the broadcaster starts dropping envelopes.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	lowCapacityThreshold int
}

func NewChannelCapacityHandler(log *slog.Logger, lowCapacityThreshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, lowCapacityThreshold: lowCapacityThreshold}
}

func (h *ChannelCapacityHandler) Handle(evt Event) {
	sample, ok := payloadOf[ChannelCapacity](h.log, evt, ChannelCapacityType)
	if !ok || sample.Capacity <= 0 {
		return
	}
	free := sample.Capacity - sample.Length
	if free > h.lowCapacityThreshold {
		h.log.Debug("Queue usage", "channel", sample.ChannelName, "length", sample.Length, "capacity", sample.Capacity)
		return
	}
	h.log.Warn("Queue almost full", "channel", sample.ChannelName, "free", free)
}
