package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The override-store DDL. Statements are idempotent so Migrate can run on
// every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS visit_overrides (
		manager_id   text        NOT NULL,
		visit_date   date        NOT NULL,
		region       text        NOT NULL,
		waypoint_id  text        NOT NULL,
		start_at     timestamptz NOT NULL,
		end_at       timestamptz NOT NULL,
		updated_at   timestamptz NOT NULL,
		PRIMARY KEY (manager_id, visit_date, region, waypoint_id)
	)`,
	`CREATE TABLE IF NOT EXISTS operational_items (
		id               uuid        PRIMARY KEY,
		manager_id       text        NOT NULL,
		visit_date       date        NOT NULL,
		region           text        NOT NULL,
		title            text        NOT NULL,
		location         text,
		start_at         timestamptz NOT NULL,
		duration_minutes integer     NOT NULL,
		created_at       timestamptz NOT NULL,
		updated_at       timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS operational_items_day_idx
		ON operational_items (manager_id, visit_date, region)`,
	`CREATE TABLE IF NOT EXISTS visit_completions (
		manager_id   text        NOT NULL,
		visit_date   date        NOT NULL,
		region       text        NOT NULL,
		waypoint_id  text        NOT NULL,
		completed_at timestamptz NOT NULL,
		PRIMARY KEY (manager_id, visit_date, region, waypoint_id)
	)`,
}

// Migrate applies the override-store schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
