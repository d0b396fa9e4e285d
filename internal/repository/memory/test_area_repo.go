// Package memory provides an in-process TestAreaRepository for development
// and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ocrbench/internal/domain"
	"ocrbench/internal/port"
)

// testAreaRepo stores serialized areas so callers never share memory with
// the store, matching the other drivers.
type testAreaRepo struct {
	mu    sync.RWMutex
	blobs map[uuid.UUID][]byte
	order []uuid.UUID // newest first
}

// NewTestAreaRepo creates an empty in-memory TestAreaRepository.
func NewTestAreaRepo() port.TestAreaRepository {
	return &testAreaRepo{blobs: map[uuid.UUID][]byte{}}
}

func (r *testAreaRepo) Create(_ context.Context, area *domain.TestArea) error {
	if area.ID == uuid.Nil {
		area.ID = uuid.New()
	}
	now := time.Now().UTC()
	area.CreatedAt = now
	area.UpdatedAt = now

	data, err := json.Marshal(area)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Create encode: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.blobs[area.ID]; exists {
		return fmt.Errorf("testAreaRepo.Create: duplicate id %s", area.ID)
	}
	r.blobs[area.ID] = data
	r.order = append([]uuid.UUID{area.ID}, r.order...)
	return nil
}

func (r *testAreaRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.TestArea, error) {
	r.mu.RLock()
	data, ok := r.blobs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrTestAreaNotFound
	}
	return decode(id, data)
}

func (r *testAreaRepo) List(_ context.Context, offset, limit int) ([]domain.TestArea, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	areas := []domain.TestArea{}
	if offset >= total || limit <= 0 {
		return areas, total, nil
	}
	end := min(offset+limit, total)
	for _, id := range r.order[offset:end] {
		area, err := decode(id, r.blobs[id])
		if err != nil {
			return nil, 0, fmt.Errorf("testAreaRepo.List: %w", err)
		}
		areas = append(areas, *area)
	}
	return areas, total, nil
}

func (r *testAreaRepo) Save(_ context.Context, area *domain.TestArea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[area.ID]; !ok {
		return domain.ErrTestAreaNotFound
	}
	area.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(area)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Save encode: %w", err)
	}
	r.blobs[area.ID] = data
	return nil
}

func (r *testAreaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[id]; !ok {
		return domain.ErrTestAreaNotFound
	}
	delete(r.blobs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (r *testAreaRepo) Ping(context.Context) error { return nil }

func decode(id uuid.UUID, data []byte) (*domain.TestArea, error) {
	var area domain.TestArea
	if err := json.Unmarshal(data, &area); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptTestArea, id, err)
	}
	return &area, nil
}
