package advance

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.Mutex
	advances map[string]Advance // keyed by id
	byToken  map[string]string  // token -> id
}

// NewMemoryRepository builds an in-memory advance store for testing and dev
// mode. Redeem performs the same compare-and-set the Postgres repository
// expresses in its WHERE clause, under the mutex.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		advances: make(map[string]Advance),
		byToken:  make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, adv Advance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byToken[adv.Token]; exists {
		return ErrTokenExists
	}
	r.advances[adv.ID] = adv
	r.byToken[adv.Token] = adv.ID
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	adv, ok := r.advances[id]
	if !ok {
		return Advance{}, ErrAdvanceNotFound
	}
	return adv, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var advances []Advance
	for _, adv := range r.advances {
		if adv.UserID == userID {
			advances = append(advances, adv)
		}
	}
	return advances, nil
}

func (r *memoryRepository) Redeem(_ context.Context, tok, stationID string, now time.Time) (Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byToken[tok]
	if !ok {
		return Advance{}, ErrAdvanceNotFound
	}
	adv := r.advances[id]
	if adv.Status != StatusPending || !adv.ExpiresAt.After(now) {
		return Advance{}, ErrAdvanceNotFound
	}
	completedAt := now.UTC()
	adv.StationID = stationID
	adv.Status = StatusCompleted
	adv.CompletedAt = &completedAt
	r.advances[id] = adv
	return adv, nil
}
