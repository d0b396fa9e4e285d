package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ocrbench/internal/domain"
	"ocrbench/internal/port"
)

// testAreaRow mirrors the test_areas table. The full TestArea lives in data;
// name and timestamps are duplicated for listing and ordering.
type testAreaRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func encodeRow(area *domain.TestArea) (*testAreaRow, error) {
	data, err := json.Marshal(area)
	if err != nil {
		return nil, err
	}
	return &testAreaRow{
		ID:        area.ID,
		Name:      area.Name,
		Data:      data,
		CreatedAt: area.CreatedAt,
		UpdatedAt: area.UpdatedAt,
	}, nil
}

func decodeRow(row *testAreaRow) (*domain.TestArea, error) {
	var area domain.TestArea
	if err := json.Unmarshal(row.Data, &area); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptTestArea, row.ID, err)
	}
	area.ID = row.ID
	return &area, nil
}

type testAreaRepo struct {
	db *sqlx.DB
}

// NewTestAreaRepo creates a new PostgreSQL-backed TestAreaRepository.
func NewTestAreaRepo(db *sqlx.DB) port.TestAreaRepository {
	return &testAreaRepo{db: db}
}

func (r *testAreaRepo) Create(ctx context.Context, area *domain.TestArea) error {
	if area.ID == uuid.Nil {
		area.ID = uuid.New()
	}
	now := time.Now().UTC()
	area.CreatedAt = now
	area.UpdatedAt = now

	row, err := encodeRow(area)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Create encode: %w", err)
	}

	query := `INSERT INTO test_areas (id, name, data, created_at, updated_at)
		VALUES (:id, :name, :data, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("testAreaRepo.Create: %w", err)
	}
	return nil
}

func (r *testAreaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestArea, error) {
	var row testAreaRow
	err := r.db.GetContext(ctx, &row, "SELECT id, name, data, created_at, updated_at FROM test_areas WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTestAreaNotFound
		}
		return nil, fmt.Errorf("testAreaRepo.GetByID: %w", err)
	}
	return decodeRow(&row)
}

func (r *testAreaRepo) List(ctx context.Context, offset, limit int) ([]domain.TestArea, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM test_areas")
	if err != nil {
		return nil, 0, fmt.Errorf("testAreaRepo.List count: %w", err)
	}

	var rows []testAreaRow
	err = r.db.SelectContext(ctx, &rows,
		"SELECT id, name, data, created_at, updated_at FROM test_areas ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("testAreaRepo.List: %w", err)
	}

	areas := make([]domain.TestArea, 0, len(rows))
	for i := range rows {
		area, err := decodeRow(&rows[i])
		if err != nil {
			return nil, 0, fmt.Errorf("testAreaRepo.List: %w", err)
		}
		areas = append(areas, *area)
	}
	return areas, total, nil
}

func (r *testAreaRepo) Save(ctx context.Context, area *domain.TestArea) error {
	area.UpdatedAt = time.Now().UTC()
	row, err := encodeRow(area)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Save encode: %w", err)
	}

	result, err := r.db.NamedExecContext(ctx,
		`UPDATE test_areas SET name = :name, data = :data, updated_at = :updated_at WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Save: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTestAreaNotFound
	}
	return nil
}

func (r *testAreaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM test_areas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("testAreaRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTestAreaNotFound
	}
	return nil
}
