package event

import (
	"sync"
	"time"
)

type Type string

const (
	RestartedAfterPanicType Type = "WORKER_RESTARTED_AFTER_PANIC"
	ChannelCapacityType     Type = "CHANNEL_CAPACITY"
	CensorshipHit           Type = "CENSORSHIP_HIT"
	BroadcastFailedType     Type = "BROADCAST_FAILED"
	InboundDroppedType      Type = "INBOUND_DROPPED"
)

// Event is a telemetry sample. Payload type depends on Type.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

func NewEvent(t Type, payload any) Event {
	return Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}
}

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

type Censored struct {
	Word string
}

// DeliveryFailure describes an envelope that could not be sent or applied.
type DeliveryFailure struct {
	EnvelopeID string
	Kind       string
	Reason     string
}

// Counter counts telemetry events per type.
type Counter struct {
	mu     sync.Mutex
	counts map[Type]uint64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Type]uint64)}
}

func (c *Counter) Increment(t Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[t]++
}

func (c *Counter) Get(t Type) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[t]
}
