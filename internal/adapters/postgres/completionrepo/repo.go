package completionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Repo is a Postgres implementation of completionrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) MarkComplete(ctx context.Context, scope domain.ScheduleScope, waypointID domain.WaypointID, at time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	// DO NOTHING keeps the first completion timestamp; the marker is never
	// cleared or rewritten.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO visit_completions (manager_id, visit_date, region, waypoint_id, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (manager_id, visit_date, region, waypoint_id) DO NOTHING
	`,
		string(scope.Manager),
		scope.Date.Format("2006-01-02"),
		scope.Region,
		string(waypointID),
		at.UTC(),
	)
	return err
}

func (r *Repo) ListCompleted(ctx context.Context, scope domain.ScheduleScope) (map[domain.WaypointID]struct{}, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT waypoint_id
		FROM visit_completions
		WHERE manager_id = $1 AND visit_date = $2 AND region = $3
	`,
		string(scope.Manager),
		scope.Date.Format("2006-01-02"),
		scope.Region,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.WaypointID]struct{})
	for rows.Next() {
		var wid string
		if err := rows.Scan(&wid); err != nil {
			return nil, err
		}
		out[domain.WaypointID(wid)] = struct{}{}
	}
	return out, rows.Err()
}
