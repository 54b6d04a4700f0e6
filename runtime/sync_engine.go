package runtime

import (
	"board-lab/codec"
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Engine is the single mutation entry point of a whiteboard session.
// Local mutations are committed, emitted and then queued for broadcast. Remote envelopes
// are applied through the same lock and never broadcast again.
//
// Handlers subscribed to the buses run synchronously in commit order and must not call
// back into the engine.
type Engine struct {
	mu     sync.Mutex // guards store
	emitMu sync.Mutex // keeps emission in commit order
	store  *domain.ObjectStore

	me          domain.Profile
	broadcaster contract.IBroadcaster
	files       contract.IFileStore
	log         *slog.Logger

	OnAdded      Bus[domain.WhiteboardObject]
	OnUpdated    Bus[domain.WhiteboardObject]
	OnRemoved    Bus[domain.WhiteboardObject]
	OnSelectedID Bus[*uuid.UUID]
}

func NewEngine(log *slog.Logger, me domain.Profile, broadcaster contract.IBroadcaster, files contract.IFileStore) *Engine {
	return &Engine{
		store:       domain.NewObjectStore(),
		me:          me,
		broadcaster: broadcaster,
		files:       files,
		log:         log,
	}
}

// commit runs mutate under the store lock, then the returned emissions in commit order.
func (e *Engine) commit(mutate func() ([]func(), error)) error {
	e.mu.Lock()
	emits, err := mutate()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.emitMu.Lock()
	e.mu.Unlock()
	defer e.emitMu.Unlock()
	for _, emit := range emits {
		emit()
	}
	return nil
}

func (e *Engine) Me() domain.Profile {
	return e.me
}

func (e *Engine) AddObject(obj domain.WhiteboardObject) error {
	return e.commit(func() ([]func(), error) {
		if err := e.store.Add(obj); err != nil {
			return nil, err
		}
		stored, _ := e.store.Lookup(obj.ID)
		e.broadcast(stored, false)
		return []func(){func() { e.OnAdded.Publish(stored) }}, nil
	})
}

// UpdateObject replaces an object's content. The lock owner is kept as stored, ownership
// only changes through Select and Deselect.
func (e *Engine) UpdateObject(obj domain.WhiteboardObject) error {
	return e.commit(func() ([]func(), error) {
		stored, err := e.editable(obj.ID)
		if err != nil {
			return nil, err
		}
		obj.SelectedBy = stored.SelectedBy
		if err := e.store.Update(obj); err != nil {
			return nil, err
		}
		updated, _ := e.store.Lookup(obj.ID)
		e.broadcast(updated, false)
		return []func(){func() { e.OnUpdated.Publish(updated) }}, nil
	})
}

func (e *Engine) RemoveObject(id uuid.UUID) error {
	return e.commit(func() ([]func(), error) {
		if _, err := e.editable(id); err != nil {
			return nil, err
		}
		removed, err := e.store.Remove(id)
		if err != nil {
			return nil, err
		}
		e.broadcast(removed, true)
		emits := []func(){func() { e.OnRemoved.Publish(removed) }}
		if removed.HeldBy(&e.me) {
			emits = append(emits, func() { e.OnSelectedID.Publish(nil) })
		}
		return emits, nil
	})
}

// editable fails when another participant holds the object.
func (e *Engine) editable(id uuid.UUID) (domain.WhiteboardObject, error) {
	stored, ok := e.store.Lookup(id)
	if !ok {
		return domain.WhiteboardObject{}, fmt.Errorf("edit %s: %w", id, errors.ErrNotFound)
	}
	if stored.IsLocked() && !stored.HeldBy(&e.me) {
		return domain.WhiteboardObject{}, fmt.Errorf("edit %s held by %s: %w", id, stored.SelectedBy.Nickname, errors.ErrAlreadyLocked)
	}
	return stored, nil
}

// Select takes the lock on id for the local profile. Selecting an object already held
// locally succeeds with no event.
func (e *Engine) Select(id uuid.UUID) error {
	return e.commit(func() ([]func(), error) {
		sel, err := e.store.Select(id, e.me)
		if err != nil {
			return nil, err
		}
		if !sel.Changed {
			return nil, nil
		}
		emits := make([]func(), 0, len(sel.Released)+2)
		for _, released := range sel.Released {
			e.broadcast(released, false)
			emits = append(emits, func() { e.OnUpdated.Publish(released) })
		}
		e.broadcast(sel.Object, false)
		emits = append(emits,
			func() { e.OnUpdated.Publish(sel.Object) },
			func() { e.OnSelectedID.Publish(lo.ToPtr(sel.Object.ID)) },
		)
		return emits, nil
	})
}

// Deselect releases whatever the local profile holds. It always succeeds.
func (e *Engine) Deselect() {
	_ = e.commit(func() ([]func(), error) {
		released := e.store.Deselect(e.me)
		if len(released) == 0 {
			return nil, nil
		}
		emits := make([]func(), 0, len(released)+1)
		for _, obj := range released {
			e.broadcast(obj, false)
			emits = append(emits, func() { e.OnUpdated.Publish(obj) })
		}
		emits = append(emits, func() { e.OnSelectedID.Publish(nil) })
		return emits, nil
	})
}

// Receive applies a whiteboard object envelope sent by a peer.
func (e *Engine) Receive(location string, env domain.DataEnvelope) error {
	payload, err := e.files.Load(location)
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", location, err, errors.ErrPersistenceFailure)
	}
	obj, err := codec.UnmarshalObject(payload)
	if err != nil {
		return err
	}
	if obj.ID != env.ID {
		return fmt.Errorf("envelope %s carries object %s: %w", env.ID, obj.ID, errors.ErrInvalidPayload)
	}

	return e.commit(func() ([]func(), error) {
		stored, known := e.store.Lookup(obj.ID)
		lostMine := known && stored.HeldBy(&e.me)

		switch {
		case env.IsDeleted:
			removed, err := e.store.Remove(obj.ID)
			if err != nil {
				return nil, err
			}
			return e.withLostSelection([]func(){func() { e.OnRemoved.Publish(removed) }}, lostMine), nil

		case !known:
			// late joiner: an update for an id we never saw is an add
			if err := e.store.Add(obj); err != nil {
				return nil, err
			}
			e.log.Debug("Implicit add of remote object", "id", obj.ID)
			return append(e.releaseStale(obj), func() { e.OnAdded.Publish(obj) }), nil

		case stored.Equal(obj):
			return nil, nil

		default:
			if err := e.store.Update(obj); err != nil {
				return nil, err
			}
			lostMine = lostMine && !obj.HeldBy(&e.me)
			emits := append(e.releaseStale(obj), func() { e.OnUpdated.Publish(obj) })
			return e.withLostSelection(emits, lostMine), nil
		}
	})
}

// releaseStale unlocks the other objects still held by the holder of obj. A peer holds one
// object at a time, a leftover lock means its release envelope never arrived.
func (e *Engine) releaseStale(obj domain.WhiteboardObject) []func() {
	if obj.SelectedBy == nil {
		return nil
	}
	released := e.store.ReleaseOthers(*obj.SelectedBy, obj.ID)
	return lo.Map(released, func(stale domain.WhiteboardObject, _ int) func() {
		e.log.Debug("Stale lock released", "id", stale.ID, "holder", obj.SelectedBy.Nickname)
		return func() { e.OnUpdated.Publish(stale) }
	})
}

// Reset discards every object of the session, the local lock included. Nothing is broadcast,
// peers of the left board keep their own copy.
func (e *Engine) Reset() {
	_ = e.commit(func() ([]func(), error) {
		_, held := e.store.HeldBy(e.me)
		e.store.Clear()
		if !held {
			return nil, nil
		}
		return []func(){func() { e.OnSelectedID.Publish(nil) }}, nil
	})
}

func (e *Engine) withLostSelection(emits []func(), lost bool) []func() {
	if !lost {
		return emits
	}
	return append(emits, func() { e.OnSelectedID.Publish(nil) })
}

// broadcast queues an object envelope. Called under the store lock so queue order is commit order.
func (e *Engine) broadcast(obj domain.WhiteboardObject, deleted bool) {
	env := domain.DataEnvelope{ID: obj.ID, Kind: domain.KindWhiteboardObject, IsDeleted: deleted}
	if !e.broadcaster.Enqueue(contract.Outgoing{Envelope: env, Payload: codec.MarshalObject(obj)}) {
		e.log.Warn("Object broadcast dropped", "id", obj.ID, "deleted", deleted)
	}
}

func (e *Engine) Lookup(id uuid.UUID) (domain.WhiteboardObject, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Lookup(id)
}

func (e *Engine) Objects() []domain.WhiteboardObject {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Objects()
}

// SelectedID returns the id of the object held by the local profile.
func (e *Engine) SelectedID() (uuid.UUID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.store.HeldBy(e.me)
	return obj.ID, ok
}
