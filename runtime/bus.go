package runtime

import (
	"sync"
)

// Bus is a synchronous multi-subscriber event channel.
// Subscribers attached after an event was published never see it.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Unsubscribe detaches the handler. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

func (b *Bus[T]) Subscribe(fn func(T)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	return &Subscription{cancel: func() { b.remove(id) }}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler attached at call time, in subscription order.
func (b *Bus[T]) Publish(value T) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, s := range subs {
		s.fn(value)
	}
}

func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
