// Command rescore recomputes the accuracy of every stored result against the
// current ground truth of its test area. Run it after changing
// OCRBENCH_SCORING_NORMALIZE or the scoring rules.
// Usage: go run ./cmd/rescore
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ocrbench/internal/config"
	"ocrbench/internal/logging"
	"ocrbench/internal/repository"
	"ocrbench/internal/service"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Collect ids first so that saves during rescoring cannot shift the pages.
	var ids []uuid.UUID
	for offset := 0; ; offset += batchSize {
		areas, _, err := store.TestAreas.List(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing test areas at offset %d: %w", offset, err)
		}
		for i := range areas {
			ids = append(ids, areas[i].ID)
		}
		if len(areas) < batchSize {
			break
		}
	}

	// Rescoring needs no providers.
	svc := service.NewTestAreaService(store.TestAreas, nil, cfg.Scoring.Normalize)

	total, results := 0, 0
	for _, id := range ids {
		area, err := svc.Rescore(ctx, id)
		if err != nil {
			slog.Warn("rescore: skipping test area", "test_area_id", id, "error", err)
			continue
		}
		for i := range area.Versions {
			results += len(area.Versions[i].Results)
		}
		total++
		if total%batchSize == 0 {
			slog.Info("rescore: progress", "test_areas", total)
		}
	}

	slog.Info("rescore: complete", "test_areas", total, "results", results, "normalize", cfg.Scoring.Normalize)
	return nil
}
