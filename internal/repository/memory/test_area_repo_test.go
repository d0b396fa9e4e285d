package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/repository/memory"
)

func TestTestAreaRepo_CRUD(t *testing.T) {
	repo := memory.NewTestAreaRepo()
	ctx := context.Background()

	area := &domain.TestArea{Name: "first", GroundTruth: "abc"}
	require.NoError(t, repo.Create(ctx, area))
	require.NotEqual(t, uuid.Nil, area.ID)

	got, err := repo.GetByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	got.Name = "mutated without save"
	again, err := repo.GetByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Name, "returned areas must not alias stored state")

	area.GroundTruth = "xyz"
	require.NoError(t, repo.Save(ctx, area))
	again, err = repo.GetByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "xyz", again.GroundTruth)

	require.NoError(t, repo.Delete(ctx, area.ID))
	_, err = repo.GetByID(ctx, area.ID)
	assert.ErrorIs(t, err, domain.ErrTestAreaNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, area.ID), domain.ErrTestAreaNotFound)
	assert.ErrorIs(t, repo.Save(ctx, area), domain.ErrTestAreaNotFound)
}

func TestTestAreaRepo_ListPagination(t *testing.T) {
	repo := memory.NewTestAreaRepo()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &domain.TestArea{Name: name}))
	}

	areas, total, err := repo.List(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, areas, 2)
	assert.Equal(t, "b", areas[0].Name)
	assert.Equal(t, "a", areas[1].Name)

	areas, _, err = repo.List(ctx, 3, 5)
	require.NoError(t, err)
	assert.Empty(t, areas)
}

func TestTestAreaRepo_ConcurrentSaves(t *testing.T) {
	repo := memory.NewTestAreaRepo()
	ctx := context.Background()
	area := &domain.TestArea{Name: "shared"}
	require.NoError(t, repo.Create(ctx, area))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := repo.GetByID(ctx, area.ID)
			if assert.NoError(t, err) {
				assert.NoError(t, repo.Save(ctx, a))
			}
		}()
	}
	wg.Wait()
}

func TestTestAreaRepo_Ping(t *testing.T) {
	p, ok := memory.NewTestAreaRepo().(port.Pinger)
	require.True(t, ok)
	assert.NoError(t, p.Ping(context.Background()))
}
