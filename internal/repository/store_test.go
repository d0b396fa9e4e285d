package repository_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/repository"
)

func TestOpen_Memory(t *testing.T) {
	store, err := repository.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "memory"}})

	require.NoError(t, err)
	require.NotNil(t, store.Pinger)
	assert.NoError(t, store.Pinger.Ping(context.Background()))
	assert.NoError(t, store.Close())
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Store: config.StoreConfig{Driver: "redis"},
		Redis: config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test"},
	}

	store, err := repository.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	area := &domain.TestArea{Name: "stored"}
	require.NoError(t, store.TestAreas.Create(ctx, area))
	got, err := store.TestAreas.GetByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Name)
	assert.NoError(t, store.Pinger.Ping(ctx))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := repository.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}})
	assert.Error(t, err)
}
