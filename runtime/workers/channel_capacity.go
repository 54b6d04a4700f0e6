package workers

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

// Gauge reports the fill level of one session queue.
type Gauge struct {
	Name string
	Len  func() int
	Cap  int
}

// GaugeOf builds a Gauge over any buffered channel.
func GaugeOf[T any](name string, ch chan T) Gauge {
	return Gauge{Name: name, Len: func() int { return len(ch) }, Cap: cap(ch)}
}

// ChannelCapacityWorker samples the session queues on every tick and reports them as telemetry.
type ChannelCapacityWorker struct {
	log       *slog.Logger
	gauges    []Gauge
	telemetry chan<- event.Event
	interval  time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, gauges []Gauge, telemetry chan<- event.Event,
	interval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{log: log, gauges: gauges, telemetry: telemetry, interval: interval}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, g := range w.gauges {
				w.report(g)
			}
		}
	}
}

// report never blocks, a skipped sample is replaced by the next tick.
func (w *ChannelCapacityWorker) report(g Gauge) {
	sample := event.NewEvent(event.ChannelCapacityType, event.ChannelCapacity{
		ChannelName: g.Name,
		Capacity:    g.Cap,
		Length:      g.Len(),
	})
	select {
	case w.telemetry <- sample:
	default:
		w.log.Debug("Capacity sample skipped", "channel", g.Name)
	}
}
