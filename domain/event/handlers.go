package event

import (
	"board-lab/errors"
	"log/slog"
)

// Handler reacts to the telemetry events it knows and ignores the others.
type Handler interface {
	Handle(event Event)
}

// payloadOf returns the payload of evt when it has type t. A payload of the wrong shape is logged.
func payloadOf[P any](log *slog.Logger, evt Event, t Type) (P, bool) {
	var zero P
	if evt.Type != t {
		return zero, false
	}
	payload, ok := evt.Payload.(P)
	if !ok {
		log.Error("Unexpected telemetry payload", "type", string(t), "error", errors.ErrInvalidPayload)
		return zero, false
	}
	return payload, true
}
