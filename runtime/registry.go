package runtime

import (
	"board-lab/domain"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Registry keeps the participants seen in the current session, in order of appearance.
// The host republishes their icons whenever someone new shows up.
type Registry struct {
	mu           sync.RWMutex
	participants map[uuid.UUID]domain.Profile
	order        []uuid.UUID
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[uuid.UUID]domain.Profile)}
}

// Observe records p and reports whether it was not known yet.
// A known participant is refreshed, nicknames and icons may change.
func (r *Registry) Observe(p domain.Profile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, known := r.participants[p.ID]
	r.participants[p.ID] = p
	if !known {
		r.order = append(r.order, p.ID)
	}
	return !known
}

func (r *Registry) Forget(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[id]; !ok {
		return
	}
	delete(r.participants, id)
	r.order = lo.Without(r.order, id)
}

func (r *Registry) Participants() []domain.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(r.order, func(id uuid.UUID, _ int) domain.Profile { return r.participants[id] })
}

// Reset forgets everyone, used when leaving a whiteboard.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = make(map[uuid.UUID]domain.Profile)
	r.order = nil
}
