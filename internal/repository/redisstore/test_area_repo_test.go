package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/repository/redisstore"
)

func newTestRepo(t *testing.T) (port.TestAreaRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := redisstore.NewClient(context.Background(), &config.RedisConfig{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.NewTestAreaRepo(client, "bench"), srv
}

func TestTestAreaRepo_CreateAndGet(t *testing.T) {
	repo, srv := newTestRepo(t)
	ctx := context.Background()

	area := &domain.TestArea{Name: "invoice", GroundTruth: "Total 5", NextVersionNumber: 1}
	require.NoError(t, repo.Create(ctx, area))
	assert.NotEqual(t, uuid.Nil, area.ID)
	assert.False(t, area.CreatedAt.IsZero())

	assert.True(t, srv.Exists("bench:test-area:"+area.ID.String()))
	ids, err := srv.List("bench:test-areas-index")
	require.NoError(t, err)
	assert.Equal(t, []string{area.ID.String()}, ids)

	got, err := repo.GetByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice", got.Name)
	assert.Equal(t, "Total 5", got.GroundTruth)
}

func TestTestAreaRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTestAreaNotFound)
}

func TestTestAreaRepo_GetByID_Corrupt(t *testing.T) {
	repo, srv := newTestRepo(t)
	id := uuid.New()
	require.NoError(t, srv.Set("bench:test-area:"+id.String(), "{broken"))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrCorruptTestArea)
}

func TestTestAreaRepo_SaveReplacesWholeObject(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	area := &domain.TestArea{Name: "a", ModelConfigs: domain.DefaultModelConfigs()}
	require.NoError(t, repo.Create(ctx, area))

	area.Name = "renamed"
	area.ModelConfigs = nil
	require.NoError(t, repo.Save(ctx, area))

	got, err := repo.GetByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Empty(t, got.ModelConfigs)
}

func TestTestAreaRepo_Save_Missing(t *testing.T) {
	repo, srv := newTestRepo(t)

	err := repo.Save(context.Background(), &domain.TestArea{ID: uuid.New(), Name: "ghost"})
	assert.ErrorIs(t, err, domain.ErrTestAreaNotFound)
	assert.Empty(t, srv.Keys())
}

func TestTestAreaRepo_ListNewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	var created []uuid.UUID
	for _, name := range []string{"first", "second", "third"} {
		area := &domain.TestArea{Name: name}
		require.NoError(t, repo.Create(ctx, area))
		created = append(created, area.ID)
	}

	areas, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, areas, 2)
	assert.Equal(t, "third", areas[0].Name)
	assert.Equal(t, "second", areas[1].Name)

	areas, _, err = repo.List(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, created[0], areas[0].ID)

	areas, total, err = repo.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, areas)
}

func TestTestAreaRepo_ListSkipsDanglingAndCorrupt(t *testing.T) {
	repo, srv := newTestRepo(t)
	ctx := context.Background()

	good := &domain.TestArea{Name: "good"}
	require.NoError(t, repo.Create(ctx, good))

	dangling := uuid.New().String()
	corrupt := uuid.New().String()
	_, err := srv.Lpush("bench:test-areas-index", dangling)
	require.NoError(t, err)
	_, err = srv.Lpush("bench:test-areas-index", corrupt)
	require.NoError(t, err)
	require.NoError(t, srv.Set("bench:test-area:"+corrupt, "nope"))

	areas, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, areas, 1)
	assert.Equal(t, "good", areas[0].Name)
}

func TestTestAreaRepo_Delete(t *testing.T) {
	repo, srv := newTestRepo(t)
	ctx := context.Background()

	area := &domain.TestArea{Name: "doomed"}
	require.NoError(t, repo.Create(ctx, area))

	require.NoError(t, repo.Delete(ctx, area.ID))
	assert.False(t, srv.Exists("bench:test-area:"+area.ID.String()))
	assert.False(t, srv.Exists("bench:test-areas-index"))

	err := repo.Delete(ctx, area.ID)
	assert.ErrorIs(t, err, domain.ErrTestAreaNotFound)
}

func TestPinger(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	p := redisstore.NewPinger(client)
	assert.NoError(t, p.Ping(context.Background()))

	srv.Close()
	assert.Error(t, p.Ping(context.Background()))
}
