package incident

import (
	"context"
	"errors"
	"time"

	"certwatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repository is the postgres-backed incident store. The open/close writes
// are conditional on `ended_at IS NULL` so racing observers cannot create a
// second open incident or close one twice.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zerolog.Logger
}

func NewRepository(pool *pgxpool.Pool, logger *zerolog.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: logger,
	}
}

const incidentColumns = `id, target_id, started_at, ended_at, incident_type, reason, resolved_automatically, duration_minutes, created_at`

func (r *Repository) GetOpen(ctx context.Context, targetID uuid.UUID) (*DowntimeIncident, error) {
	const op string = "repo.incident.get_open"

	row := r.pool.QueryRow(ctx,
		`SELECT `+incidentColumns+`
		 FROM downtime_incidents
		 WHERE target_id = $1 AND ended_at IS NULL`,
		utils.ToPgUUID(targetID),
	)

	inc, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return &inc, nil
}

func (r *Repository) Open(ctx context.Context, inc DowntimeIncident) (*DowntimeIncident, bool, error) {
	const op string = "repo.incident.open"

	// conditional insert: no row lands when an open incident already exists
	row := r.pool.QueryRow(ctx,
		`INSERT INTO downtime_incidents (id, target_id, started_at, incident_type, reason, created_at)
		 SELECT $1, $2, $3, $4, $5, now()
		 WHERE NOT EXISTS (
		 	SELECT 1 FROM downtime_incidents WHERE target_id = $2 AND ended_at IS NULL
		 )
		 RETURNING `+incidentColumns,
		utils.ToPgUUID(uuid.New()),
		utils.ToPgUUID(inc.TargetID),
		utils.ToPgTimestamptz(inc.StartedAt),
		string(inc.IncidentType),
		utils.ToPgText(inc.Reason),
	)

	created, err := scanIncident(row)
	if err == nil {
		return &created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, utils.WrapRepoError(op, err, false, r.logger)
	}

	// lost the race, surface the winner
	open, err := r.GetOpen(ctx, inc.TargetID)
	if err != nil {
		return nil, false, err
	}
	if open == nil {
		return nil, false, utils.WrapRepoError(op, errors.New("open incident vanished during conditional insert"), false, r.logger)
	}
	return open, false, nil
}

func (r *Repository) Close(ctx context.Context, targetID uuid.UUID, endedAt time.Time) (*DowntimeIncident, error) {
	const op string = "repo.incident.close"

	row := r.pool.QueryRow(ctx,
		`UPDATE downtime_incidents
		 SET ended_at = $2,
		     resolved_automatically = TRUE,
		     duration_minutes = FLOOR(EXTRACT(EPOCH FROM ($2 - started_at)) / 60)
		 WHERE target_id = $1 AND ended_at IS NULL
		 RETURNING `+incidentColumns,
		utils.ToPgUUID(targetID),
		utils.ToPgTimestamptz(endedAt),
	)

	closed, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// no open incident, the losing writer's close is discarded
			return nil, nil
		}
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return &closed, nil
}

func (r *Repository) ListByTarget(ctx context.Context, targetID uuid.UUID, limit, offset int32) ([]DowntimeIncident, error) {
	const op string = "repo.incident.list_by_target"

	rows, err := r.pool.Query(ctx,
		`SELECT `+incidentColumns+`
		 FROM downtime_incidents
		 WHERE target_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2 OFFSET $3`,
		utils.ToPgUUID(targetID), limit, offset,
	)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	incidents := make([]DowntimeIncident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	return incidents, nil
}

func scanIncident(row pgx.Row) (DowntimeIncident, error) {
	var (
		id        pgtype.UUID
		targetID  pgtype.UUID
		startedAt pgtype.Timestamptz
		endedAt   pgtype.Timestamptz
		incType   string
		reason    pgtype.Text
		resolved  bool
		duration  pgtype.Int8
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &targetID, &startedAt, &endedAt, &incType, &reason, &resolved, &duration, &createdAt); err != nil {
		return DowntimeIncident{}, err
	}

	inc := DowntimeIncident{
		ID:                    utils.FromPgUUID(id),
		TargetID:              utils.FromPgUUID(targetID),
		StartedAt:             utils.FromPgTimestamptz(startedAt),
		EndedAt:               utils.FromPgTimestamptzPtr(endedAt),
		IncidentType:          Type(incType),
		Reason:                utils.FromPgText(reason),
		ResolvedAutomatically: resolved,
		CreatedAt:             utils.FromPgTimestamptz(createdAt),
	}
	if d := utils.FromPgInt8Ptr(duration); d != nil {
		inc.DurationMinutes = *d
	}
	return inc, nil
}
