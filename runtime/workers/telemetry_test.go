package workers

import (
	"board-lab/domain/event"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events chan event.Event
}

func (h recordingHandler) Handle(evt event.Event) { h.events <- evt }

func TestChannelCapacityWorker_FeedsTelemetry(t *testing.T) {
	req := require.New(t)
	queue := make(chan int, 4)
	queue <- 1
	telemetry := make(chan event.Event, 8)
	handler := recordingHandler{events: make(chan event.Event, 8)}

	sampler := NewChannelCapacityWorker(slog.Default(), []Gauge{GaugeOf("broadcast", queue)},
		telemetry, 10*time.Millisecond)
	consumer := NewTelemetryWorker(slog.Default(), telemetry, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sampler.Run(ctx) }()
	go func() { _ = consumer.Run(ctx) }()

	select {
	case evt := <-handler.events:
		req.Equal(event.ChannelCapacityType, evt.Type)
		req.Equal(event.ChannelCapacity{ChannelName: "broadcast", Capacity: 4, Length: 1}, evt.Payload)
	case <-time.After(time.Second):
		req.Fail("No capacity sample received")
	}
}

func TestHandlers_CountEvents(t *testing.T) {
	req := require.New(t)
	counter := event.NewCounter()
	censored := event.NewCensoredHandler(slog.Default())
	restarts := event.NewWorkerRestartedAfterPanicHandler(slog.Default(), counter)
	failures := event.NewDeliveryFailureHandler(slog.Default(), counter)

	for _, h := range []event.Handler{censored, restarts, failures} {
		h.Handle(event.NewEvent(event.CensorshipHit, event.Censored{Word: "badger"}))
		h.Handle(event.NewEvent(event.RestartedAfterPanicType, event.WorkerRestartedAfterPanic{WorkerName: "Broadcaster"}))
		h.Handle(event.NewEvent(event.BroadcastFailedType, event.DeliveryFailure{Reason: "no peers"}))
		// wrong payload is ignored
		h.Handle(event.NewEvent(event.BroadcastFailedType, "oops"))
	}

	req.Equal(uint64(1), censored.Hits("badger"))
	req.Equal(uint64(1), counter.Get(event.RestartedAfterPanicType))
	req.Equal(uint64(1), counter.Get(event.BroadcastFailedType))
}
