package target

import (
	"context"

	"certwatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

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

const targetColumns = `id, user_id, url, alert_email, interval_sec, timeout_sec, expected_status, max_response_time_ms, expected_content, forbidden_content, follow_redirects, max_redirects, ssl_expiry_warn_days, enabled`

func (r *Repository) Create(ctx context.Context, cmd CreateTargetCmd) (uuid.UUID, error) {
	const op string = "repo.target.create"

	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO targets (id, user_id, url, alert_email, interval_sec, timeout_sec, expected_status, max_response_time_ms, expected_content, forbidden_content, follow_redirects, max_redirects, ssl_expiry_warn_days, enabled, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE, now())`,
		utils.ToPgUUID(id),
		utils.ToPgUUID(cmd.UserID),
		cmd.URL,
		utils.ToPgText(cmd.AlertEmail),
		cmd.IntervalSec,
		cmd.TimeoutSec,
		cmd.ExpectedStatus,
		cmd.MaxResponseTimeMs,
		utils.ToPgText(cmd.ExpectedContent),
		utils.ToPgText(cmd.ForbiddenContent),
		cmd.FollowRedirects,
		cmd.MaxRedirects,
		cmd.SSLExpiryWarnDays,
	)
	if err != nil {
		return uuid.UUID{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return id, nil
}

func (r *Repository) GetByID(ctx context.Context, targetID uuid.UUID) (Target, error) {
	const op string = "repo.target.get_by_id"

	row := r.pool.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = $1`,
		utils.ToPgUUID(targetID),
	)
	t, err := scanTarget(row)
	if err != nil {
		return Target{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return t, nil
}

func (r *Repository) Get(ctx context.Context, userID, targetID uuid.UUID) (Target, error) {
	const op string = "repo.target.get"

	row := r.pool.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = $1 AND user_id = $2`,
		utils.ToPgUUID(targetID), utils.ToPgUUID(userID),
	)
	t, err := scanTarget(row)
	if err != nil {
		return Target{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return t, nil
}

func (r *Repository) GetAll(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Target, error) {
	const op string = "repo.target.get_all"

	rows, err := r.pool.Query(ctx,
		`SELECT `+targetColumns+`
		 FROM targets
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		utils.ToPgUUID(userID), limit, offset,
	)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	targets := make([]Target, 0)
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return targets, nil
}

func (r *Repository) SetEnabled(ctx context.Context, userID, targetID uuid.UUID, enabled bool) error {
	const op string = "repo.target.set_enabled"

	tag, err := r.pool.Exec(ctx,
		`UPDATE targets SET enabled = $3 WHERE id = $1 AND user_id = $2`,
		utils.ToPgUUID(targetID), utils.ToPgUUID(userID), enabled,
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return utils.WrapRepoError(op, pgx.ErrNoRows, true, r.logger)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID, targetID uuid.UUID) error {
	const op string = "repo.target.delete"

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM targets WHERE id = $1 AND user_id = $2`,
		utils.ToPgUUID(targetID), utils.ToPgUUID(userID),
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return utils.WrapRepoError(op, pgx.ErrNoRows, true, r.logger)
	}
	return nil
}

func scanTarget(row pgx.Row) (Target, error) {
	var (
		t                Target
		id               pgtype.UUID
		userID           pgtype.UUID
		alertEmail       pgtype.Text
		expectedContent  pgtype.Text
		forbiddenContent pgtype.Text
	)

	err := row.Scan(&id, &userID, &t.URL, &alertEmail, &t.IntervalSec, &t.TimeoutSec, &t.ExpectedStatus, &t.MaxResponseTimeMs, &expectedContent, &forbiddenContent, &t.FollowRedirects, &t.MaxRedirects, &t.SSLExpiryWarnDays, &t.Enabled)
	if err != nil {
		return Target{}, err
	}

	t.ID = utils.FromPgUUID(id)
	t.UserID = utils.FromPgUUID(userID)
	t.AlertEmail = utils.FromPgText(alertEmail)
	t.ExpectedContent = utils.FromPgText(expectedContent)
	t.ForbiddenContent = utils.FromPgText(forbiddenContent)
	return t, nil
}
