package otp

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu    sync.Mutex
	codes []Code
}

// NewMemoryRepository builds an in-memory code store for testing and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, code Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
	return nil
}

func (r *memoryRepository) Consume(_ context.Context, phone, code string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.codes {
		c := &r.codes[i]
		if c.Phone == phone && c.Code == code && !c.Verified && c.ExpiresAt.After(now) {
			c.Verified = true
			return nil
		}
	}
	return ErrCodeNotFound
}
