package workers

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"context"
	"log/slog"
	"time"
)

var (
	_ contract.Worker       = (*Broadcaster)(nil)
	_ contract.IBroadcaster = (*Broadcaster)(nil)
)

// Broadcaster takes local mutations off the critical path: it saves payloads and hands
// envelopes to the transport in queue order. Failed sends are reported, never retried.
type Broadcaster struct {
	log         *slog.Logger
	queue       chan contract.Outgoing
	transport   contract.ITransport
	files       contract.IFileStore
	sendTimeout time.Duration
	telemetry   chan<- event.Event
}

func NewBroadcaster(log *slog.Logger, transport contract.ITransport, files contract.IFileStore,
	bufferSize int, sendTimeout time.Duration, telemetry chan<- event.Event) *Broadcaster {
	return &Broadcaster{
		log:         log,
		queue:       make(chan contract.Outgoing, bufferSize),
		transport:   transport,
		files:       files,
		sendTimeout: sendTimeout,
		telemetry:   telemetry,
	}
}

// Enqueue never blocks. It returns false when the queue is full.
func (b *Broadcaster) Enqueue(out contract.Outgoing) bool {
	select {
	case b.queue <- out:
		return true
	default:
		b.log.Warn("Broadcast queue full, envelope dropped", "id", out.Envelope.ID, "kind", out.Envelope.Kind.String())
		b.report(out, "queue full")
		return false
	}
}

// Purge drops the envelopes still waiting in the queue and returns how many were dropped.
// A send already in progress is not interrupted.
func (b *Broadcaster) Purge() int {
	for dropped := 0; ; dropped++ {
		select {
		case <-b.queue:
		default:
			if dropped > 0 {
				b.log.Debug("Broadcast queue purged", "dropped", dropped)
			}
			return dropped
		}
	}
}

// Queue is exposed for capacity sampling.
func (b *Broadcaster) Queue() chan contract.Outgoing {
	return b.queue
}

func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			b.log.Debug("Context done, stopping broadcaster")
			return nil
		case out := <-b.queue:
			b.send(ctx, out)
		}
	}
}

func (b *Broadcaster) send(ctx context.Context, out contract.Outgoing) {
	location := out.Location
	if location == "" {
		var err error
		location, err = b.files.Save(out.Envelope, out.Payload)
		if err != nil {
			b.log.Error("Unable to save outgoing payload", "id", out.Envelope.ID, "error", err)
			b.report(out, err.Error())
			return
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, b.sendTimeout)
	defer cancel()
	if err := b.transport.Send(sendCtx, location, out.Envelope); err != nil {
		b.log.Warn("Broadcast failed", "id", out.Envelope.ID, "kind", out.Envelope.Kind.String(), "error", err)
		b.report(out, err.Error())
		return
	}
	b.log.Debug("Envelope broadcast", "id", out.Envelope.ID, "kind", out.Envelope.Kind.String(), "deleted", out.Envelope.IsDeleted)
}

func (b *Broadcaster) report(out contract.Outgoing, reason string) {
	if b.telemetry == nil {
		return
	}
	failure := event.DeliveryFailure{EnvelopeID: out.Envelope.ID.String(), Kind: out.Envelope.Kind.String(), Reason: reason}
	select {
	case b.telemetry <- event.NewEvent(event.BroadcastFailedType, failure):
	default:
		b.log.Debug("Observability telemetry event lost")
	}
}
