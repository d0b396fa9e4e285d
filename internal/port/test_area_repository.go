package port

import (
	"context"

	"github.com/google/uuid"

	"ocrbench/internal/domain"
)

// TestAreaRepository persists whole test areas. Save replaces the stored
// object atomically; there are no partial updates.
type TestAreaRepository interface {
	Create(ctx context.Context, area *domain.TestArea) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error)
	List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error)
	Save(ctx context.Context, area *domain.TestArea) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
