package overriderepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

// Repo is a Postgres implementation of overriderepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Upsert(ctx context.Context, o overriderepo.VisitOverride) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO visit_overrides (manager_id, visit_date, region, waypoint_id, start_at, end_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (manager_id, visit_date, region, waypoint_id) DO UPDATE
		SET start_at = EXCLUDED.start_at,
		    end_at = EXCLUDED.end_at,
		    updated_at = EXCLUDED.updated_at
	`,
		string(o.Scope.Manager),
		o.Scope.Date.Format("2006-01-02"),
		o.Scope.Region,
		string(o.WaypointID),
		o.Start.UTC(),
		o.End.UTC(),
		o.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) ListByDay(ctx context.Context, scope domain.ScheduleScope) ([]overriderepo.VisitOverride, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT waypoint_id, start_at, end_at, updated_at
		FROM visit_overrides
		WHERE manager_id = $1 AND visit_date = $2 AND region = $3
		ORDER BY waypoint_id ASC
	`,
		string(scope.Manager),
		scope.Date.Format("2006-01-02"),
		scope.Region,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]overriderepo.VisitOverride, 0)
	for rows.Next() {
		var wid string
		var start, end, updated time.Time
		if err := rows.Scan(&wid, &start, &end, &updated); err != nil {
			return nil, err
		}
		out = append(out, overriderepo.VisitOverride{
			Scope:      scope,
			WaypointID: domain.WaypointID(wid),
			Start:      start.UTC(),
			End:        end.UTC(),
			UpdatedAt:  updated.UTC(),
		})
	}
	return out, rows.Err()
}
