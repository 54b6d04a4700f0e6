package domain

import (
	"board-lab/errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ObjectStore is the local authoritative set of whiteboard objects.
// Invariants:
//   - ids are unique
//   - an object is held by at most one profile
//   - a profile holds at most one object
//
// A failed operation never mutates the store. ObjectStore is not safe for concurrent use,
// its owner serializes access.
type ObjectStore struct {
	objects map[uuid.UUID]WhiteboardObject
	order   []uuid.UUID
}

// Selection describes the outcome of a successful Select.
type Selection struct {
	Object   WhiteboardObject
	Released []WhiteboardObject
	Changed  bool
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: make(map[uuid.UUID]WhiteboardObject)}
}

func (s *ObjectStore) Add(obj WhiteboardObject) error {
	if _, ok := s.objects[obj.ID]; ok {
		return fmt.Errorf("add %s: %w", obj.ID, errors.ErrDuplicateID)
	}
	s.objects[obj.ID] = obj.Clone()
	s.order = append(s.order, obj.ID)
	return nil
}

// Update replaces the stored object wholesale. It does not check ownership.
func (s *ObjectStore) Update(obj WhiteboardObject) error {
	if _, ok := s.objects[obj.ID]; !ok {
		return fmt.Errorf("update %s: %w", obj.ID, errors.ErrNotFound)
	}
	s.objects[obj.ID] = obj.Clone()
	return nil
}

func (s *ObjectStore) Remove(id uuid.UUID) (WhiteboardObject, error) {
	obj, ok := s.objects[id]
	if !ok {
		return WhiteboardObject{}, fmt.Errorf("remove %s: %w", id, errors.ErrNotFound)
	}
	delete(s.objects, id)
	s.order = lo.Without(s.order, id)
	return obj, nil
}

// Select grants the lock on id to by. Re-selecting an object already held by the same
// profile succeeds without change. Any other object held by that profile is released.
func (s *ObjectStore) Select(id uuid.UUID, by Profile) (Selection, error) {
	obj, ok := s.objects[id]
	if !ok {
		return Selection{}, fmt.Errorf("select %s: %w", id, errors.ErrNotFound)
	}
	if obj.SelectedBy != nil {
		if !obj.SelectedBy.Equal(by) {
			return Selection{}, fmt.Errorf("select %s held by %s: %w", id, obj.SelectedBy.Nickname, errors.ErrAlreadyLocked)
		}
		return Selection{Object: obj.Clone()}, nil
	}

	released := s.ReleaseOthers(by, id)

	obj.SelectedBy = lo.ToPtr(by)
	s.objects[id] = obj
	return Selection{Object: obj.Clone(), Released: released, Changed: true}, nil
}

// Deselect releases every object held by by and returns them unlocked.
func (s *ObjectStore) Deselect(by Profile) []WhiteboardObject {
	return s.ReleaseOthers(by, uuid.Nil)
}

// ReleaseOthers unlocks every object held by by except keep and returns them unlocked.
func (s *ObjectStore) ReleaseOthers(by Profile, keep uuid.UUID) []WhiteboardObject {
	var released []WhiteboardObject
	for _, id := range s.order {
		obj := s.objects[id]
		if id == keep || obj.SelectedBy == nil || !obj.SelectedBy.Equal(by) {
			continue
		}
		obj.SelectedBy = nil
		s.objects[id] = obj
		released = append(released, obj.Clone())
	}
	return released
}

// Clear drops every object.
func (s *ObjectStore) Clear() {
	s.objects = make(map[uuid.UUID]WhiteboardObject)
	s.order = nil
}

func (s *ObjectStore) Lookup(id uuid.UUID) (WhiteboardObject, bool) {
	obj, ok := s.objects[id]
	if !ok {
		return WhiteboardObject{}, false
	}
	return obj.Clone(), true
}

// HeldBy returns the object currently locked by p, if any.
func (s *ObjectStore) HeldBy(p Profile) (WhiteboardObject, bool) {
	for _, id := range s.order {
		obj := s.objects[id]
		if obj.SelectedBy != nil && obj.SelectedBy.Equal(p) {
			return obj.Clone(), true
		}
	}
	return WhiteboardObject{}, false
}

// Objects returns the objects in insertion order.
func (s *ObjectStore) Objects() []WhiteboardObject {
	return lo.Map(s.order, func(id uuid.UUID, _ int) WhiteboardObject {
		return s.objects[id].Clone()
	})
}

func (s *ObjectStore) Len() int {
	return len(s.objects)
}
