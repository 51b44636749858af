package plan

import (
	"context"
	"sync"
	"time"
)

// MemorySessionRepository is an in-memory SessionRepository for
// development and tests. Expiry is checked on read; Cleanup prunes
// eagerly.
type MemorySessionRepository struct {
	mu    sync.RWMutex
	ttl   time.Duration
	slots map[string]memorySlot
}

type memorySlot struct {
	form      SessionForm
	expiresAt time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:   ttl,
		slots: make(map[string]memorySlot),
	}
}

func (r *MemorySessionRepository) Save(_ context.Context, key string, form *SessionForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key] = memorySlot{form: *form, expiresAt: time.Now().Add(r.ttl)}
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, key string) (*SessionForm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[key]
	if !ok || time.Now().After(slot.expiresAt) {
		return nil, nil
	}
	form := slot.form
	return &form, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, key)
	return nil
}

func (r *MemorySessionRepository) Cleanup(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for key, slot := range r.slots {
		if now.After(slot.expiresAt) {
			delete(r.slots, key)
		}
	}
	return nil
}
