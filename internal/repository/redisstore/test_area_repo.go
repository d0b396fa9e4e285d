// Package redisstore keeps test areas as JSON blobs in Redis, one key per
// area plus a list index of ids ordered newest first.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

type testAreaRepo struct {
	client *redis.Client
	prefix string
}

// NewTestAreaRepo creates a Redis-backed TestAreaRepository. Keys are
// "<prefix>:test-area:<id>" and "<prefix>:test-areas-index".
func NewTestAreaRepo(client *redis.Client, prefix string) port.TestAreaRepository {
	return &testAreaRepo{client: client, prefix: prefix}
}

func (r *testAreaRepo) areaKey(id uuid.UUID) string {
	return r.prefix + ":test-area:" + id.String()
}

func (r *testAreaRepo) indexKey() string {
	return r.prefix + ":test-areas-index"
}

func (r *testAreaRepo) Create(ctx context.Context, area *domain.TestArea) error {
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

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.areaKey(area.ID), data, 0)
		pipe.LPush(ctx, r.indexKey(), area.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("testAreaRepo.Create: %w", err)
	}
	return nil
}

func (r *testAreaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	data, err := r.client.Get(ctx, r.areaKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrTestAreaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("testAreaRepo.GetByID: %w", err)
	}
	return decode(id, data)
}

func (r *testAreaRepo) List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error) {
	total, err := r.client.LLen(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("testAreaRepo.List count: %w", err)
	}
	if limit <= 0 || int64(offset) >= total {
		return []domain.TestArea{}, int(total), nil
	}

	ids, err := r.client.LRange(ctx, r.indexKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("testAreaRepo.List index: %w", err)
	}
	if len(ids) == 0 {
		return []domain.TestArea{}, int(total), nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + ":test-area:" + id
	}
	blobs, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("testAreaRepo.List: %w", err)
	}

	areas := make([]domain.TestArea, 0, len(blobs))
	for i, blob := range blobs {
		s, ok := blob.(string)
		if !ok {
			slog.Warn("redisstore: index entry without test area", "id", ids[i])
			continue
		}
		id, _ := uuid.Parse(ids[i])
		area, err := decode(id, []byte(s))
		if err != nil {
			slog.Warn("redisstore: skipping unreadable test area", "id", ids[i], "error", err)
			continue
		}
		areas = append(areas, *area)
	}
	return areas, int(total), nil
}

func (r *testAreaRepo) Save(ctx context.Context, area *domain.TestArea) error {
	area.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(area)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Save encode: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.areaKey(area.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("testAreaRepo.Save: %w", err)
	}
	if !ok {
		return domain.ErrTestAreaNotFound
	}
	return nil
}

func (r *testAreaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.areaKey(id))
		pipe.LRem(ctx, r.indexKey(), 0, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("testAreaRepo.Delete: %w", err)
	}
	if del.Val() == 0 {
		return domain.ErrTestAreaNotFound
	}
	return nil
}

func decode(id uuid.UUID, data []byte) (*domain.TestArea, error) {
	var area domain.TestArea
	if err := json.Unmarshal(data, &area); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptTestArea, id, err)
	}
	if area.ID == uuid.Nil {
		area.ID = id
	}
	return &area, nil
}

type pinger struct {
	client *redis.Client
}

// NewPinger reports Redis reachability for readiness checks.
func NewPinger(client *redis.Client) port.Pinger {
	return &pinger{client: client}
}

func (p *pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
