package opsitemrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
)

// Repo is a Postgres implementation of opsitemrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Upsert(ctx context.Context, item opsitemrepo.Item) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(item.ID))
	if err != nil {
		return fmt.Errorf("invalid operational item id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO operational_items
			(id, manager_id, visit_date, region, title, location, start_at, duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    location = EXCLUDED.location,
		    start_at = EXCLUDED.start_at,
		    duration_minutes = EXCLUDED.duration_minutes,
		    updated_at = EXCLUDED.updated_at
	`,
		id,
		string(item.Scope.Manager),
		item.Scope.Date.Format("2006-01-02"),
		item.Scope.Region,
		item.Title,
		item.Location,
		item.Start.UTC(),
		item.DurationMinutes,
		item.CreatedAt.UTC(),
		item.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, itemID domain.OperationalItemID) (opsitemrepo.Item, error) {
	if r.pool == nil {
		return opsitemrepo.Item{}, errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(itemID))
	if err != nil {
		return opsitemrepo.Item{}, opsitemrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `
		SELECT manager_id, visit_date, region, title, location, start_at, duration_minutes, created_at, updated_at
		FROM operational_items
		WHERE id = $1
	`, id)

	var manager, region, title string
	var visitDate time.Time
	var location *string
	var start, createdAt, updated time.Time
	var durationMinutes int
	if err := row.Scan(&manager, &visitDate, &region, &title, &location, &start, &durationMinutes, &createdAt, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return opsitemrepo.Item{}, opsitemrepo.ErrNotFound
		}
		return opsitemrepo.Item{}, err
	}
	return opsitemrepo.Item{
		ID: itemID,
		Scope: domain.ScheduleScope{
			Manager: domain.ManagerID(manager),
			Date:    visitDate,
			Region:  region,
		},
		Title:           title,
		Location:        location,
		Start:           start.UTC(),
		DurationMinutes: durationMinutes,
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       updated.UTC(),
	}, nil
}

func (r *Repo) ListByDay(ctx context.Context, scope domain.ScheduleScope) ([]opsitemrepo.Item, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, location, start_at, duration_minutes, created_at, updated_at
		FROM operational_items
		WHERE manager_id = $1 AND visit_date = $2 AND region = $3
		ORDER BY start_at ASC, id ASC
	`,
		string(scope.Manager),
		scope.Date.Format("2006-01-02"),
		scope.Region,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]opsitemrepo.Item, 0)
	for rows.Next() {
		var (
			id                        uuid.UUID
			title                     string
			location                  *string
			start, createdAt, updated time.Time
			durationMinutes           int
		)
		if err := rows.Scan(&id, &title, &location, &start, &durationMinutes, &createdAt, &updated); err != nil {
			return nil, err
		}
		out = append(out, opsitemrepo.Item{
			ID:              domain.OperationalItemID(id.String()),
			Scope:           scope,
			Title:           title,
			Location:        location,
			Start:           start.UTC(),
			DurationMinutes: durationMinutes,
			CreatedAt:       createdAt.UTC(),
			UpdatedAt:       updated.UTC(),
		})
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, itemID domain.OperationalItemID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(itemID))
	if err != nil {
		return opsitemrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM operational_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return opsitemrepo.ErrNotFound
	}
	return nil
}
