package workers

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"context"
	"log/slog"
)

var _ contract.Worker = (*InboundWorker)(nil)

// InboundWorker drains the transport events. Envelopes are dispatched by kind to exactly one
// handler, discovery events go to the discovery handler. A failing envelope is logged and dropped.
type InboundWorker struct {
	log       *slog.Logger
	events    <-chan event.TransportEvent
	handlers  map[domain.DataKind]contract.EnvelopeHandler
	discovery contract.DiscoveryHandler
	telemetry chan<- event.Event
}

func NewInboundWorker(log *slog.Logger, events <-chan event.TransportEvent,
	discovery contract.DiscoveryHandler, telemetry chan<- event.Event) *InboundWorker {
	return &InboundWorker{
		log:       log,
		events:    events,
		handlers:  make(map[domain.DataKind]contract.EnvelopeHandler),
		discovery: discovery,
		telemetry: telemetry,
	}
}

// Handle registers the handler of one envelope kind. Not safe once Run started.
func (w *InboundWorker) Handle(kind domain.DataKind, handler contract.EnvelopeHandler) *InboundWorker {
	w.handlers[kind] = handler
	return w
}

func (w *InboundWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping inbound worker")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Transport events closed")
				return nil
			}
			w.Dispatch(evt)
		}
	}
}

func (w *InboundWorker) Dispatch(evt event.TransportEvent) {
	switch e := evt.(type) {
	case event.EnvelopeReceived:
		w.receive(e)
	case event.PeersFound:
		w.discovery.HandleFound(e.Connections)
	case event.PeerLost:
		w.discovery.HandleLost(e.Connection)
	case event.ConnectionRequested:
		w.discovery.HandleConnectionRequest(e.Connection, e.Respond)
	case event.ConnectionFailed:
		w.discovery.HandleCannotConnect(e.Err)
	default:
		w.log.Warn("Unknown transport event", "type", evt)
	}
}

func (w *InboundWorker) receive(e event.EnvelopeReceived) {
	handler, ok := w.handlers[e.Envelope.Kind]
	if !ok {
		w.log.Warn("No handler for envelope kind, dropped", "id", e.Envelope.ID, "kind", e.Envelope.Kind.String())
		w.report(e, "unknown kind")
		return
	}
	if err := handler.Receive(e.Location, e.Envelope); err != nil {
		w.log.Warn("Inbound envelope dropped", "id", e.Envelope.ID, "kind", e.Envelope.Kind.String(), "error", err)
		w.report(e, err.Error())
	}
}

func (w *InboundWorker) report(e event.EnvelopeReceived, reason string) {
	if w.telemetry == nil {
		return
	}
	failure := event.DeliveryFailure{EnvelopeID: e.Envelope.ID.String(), Kind: e.Envelope.Kind.String(), Reason: reason}
	select {
	case w.telemetry <- event.NewEvent(event.InboundDroppedType, failure):
	default:
		w.log.Debug("Observability telemetry event lost")
	}
}
