package event

import "log/slog"

// DeliveryFailureHandler counts envelopes that could not be broadcast or applied.
// Nothing is retried.
type DeliveryFailureHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewDeliveryFailureHandler(log *slog.Logger, counter *Counter) *DeliveryFailureHandler {
	return &DeliveryFailureHandler{log: log, counter: counter}
}

func (h *DeliveryFailureHandler) Handle(evt Event) {
	for _, t := range []Type{BroadcastFailedType, InboundDroppedType} {
		failure, ok := payloadOf[DeliveryFailure](h.log, evt, t)
		if !ok {
			continue
		}
		h.counter.Increment(t)
		h.log.Warn("Envelope dropped",
			"direction", string(t),
			"envelope_id", failure.EnvelopeID,
			"kind", failure.Kind,
			"reason", failure.Reason,
			"total", h.counter.Get(t))
	}
}
