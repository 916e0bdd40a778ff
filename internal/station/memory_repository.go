package station

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	stations map[string]Station
}

// NewMemoryRepository builds an in-memory station store for testing and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{stations: make(map[string]Station)}
}

func (r *memoryRepository) Create(_ context.Context, st Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations[st.ID] = st
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stations[id]
	if !ok {
		return Station{}, ErrStationNotFound
	}
	return st, nil
}

func (r *memoryRepository) ListActive(_ context.Context) ([]Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stations []Station
	for _, st := range r.stations {
		if st.Status == StatusActive {
			stations = append(stations, st)
		}
	}
	return stations, nil
}
