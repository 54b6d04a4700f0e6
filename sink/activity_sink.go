package sink

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"context"
	"sync"
)

var _ contract.EventSink = (*ActivitySink)(nil)

// ActivitySink keeps the latest whiteboard changes, oldest first, for the /activity view.
type ActivitySink struct {
	mu      sync.Mutex
	size    int
	changes []event.ObjectChanged
}

func NewActivitySink(size int) *ActivitySink {
	return &ActivitySink{size: max(size, 1)}
}

func (a *ActivitySink) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.ObjectChanged)
	if !ok {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changes = append(a.changes, evt)
	if len(a.changes) > a.size {
		a.changes = a.changes[len(a.changes)-a.size:]
	}
	return nil
}

func (a *ActivitySink) Recent() []event.ObjectChanged {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]event.ObjectChanged(nil), a.changes...)
}
