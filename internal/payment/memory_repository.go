package payment

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.Mutex
	payments []Payment
	byRef    map[string]bool
}

// NewMemoryRepository builds an in-memory payment store for testing and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{byRef: make(map[string]bool)}
}

func (r *memoryRepository) Create(_ context.Context, payment Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byRef[payment.Reference] {
		return ErrReferenceExists
	}
	r.payments = append(r.payments, payment)
	r.byRef[payment.Reference] = true
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var payments []Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}
