package alertrule

import (
	"context"
	"time"

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

const ruleColumns = `id, user_id, target_id, rule_type, threshold_days, threshold_response_time_ms, severity, enabled, cooldown_seconds, last_triggered_at, channels, created_at`

func (r *Repository) Create(ctx context.Context, cmd CreateRuleCmd, severity Severity) (uuid.UUID, error) {
	const op string = "repo.alertrule.create"

	channels := make([]string, 0, len(cmd.Channels))
	for _, c := range cmd.Channels {
		channels = append(channels, string(c))
	}

	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO alert_rules (id, user_id, target_id, rule_type, threshold_days, threshold_response_time_ms, severity, enabled, cooldown_seconds, channels, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`,
		utils.ToPgUUID(id),
		utils.ToPgUUID(cmd.UserID),
		utils.ToPgUUIDPtr(cmd.TargetID),
		string(cmd.Type),
		utils.ToPgInt4Ptr(cmd.ThresholdDays),
		utils.ToPgInt8Ptr(cmd.ThresholdResponseTimeMs),
		string(severity),
		cmd.Enabled,
		int64(cmd.Cooldown.Seconds()),
		channels,
	)
	if err != nil {
		return uuid.UUID{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, userID, ruleID uuid.UUID) (Rule, error) {
	const op string = "repo.alertrule.get"

	row := r.pool.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM alert_rules WHERE id = $1 AND user_id = $2`,
		utils.ToPgUUID(ruleID), utils.ToPgUUID(userID),
	)
	rule, err := scanRule(row)
	if err != nil {
		return Rule{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return rule, nil
}

// ListForTarget returns the rules in scope for one check event: rules scoped
// to the target plus the owner's unscoped template rules.
func (r *Repository) ListForTarget(ctx context.Context, userID, targetID uuid.UUID) ([]Rule, error) {
	const op string = "repo.alertrule.list_for_target"

	rows, err := r.pool.Query(ctx,
		`SELECT `+ruleColumns+`
		 FROM alert_rules
		 WHERE user_id = $1 AND (target_id = $2 OR target_id IS NULL)
		 ORDER BY created_at`,
		utils.ToPgUUID(userID), utils.ToPgUUID(targetID),
	)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	return collectRules(rows, op, r.logger)
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Rule, error) {
	const op string = "repo.alertrule.list_by_user"

	rows, err := r.pool.Query(ctx,
		`SELECT `+ruleColumns+`
		 FROM alert_rules
		 WHERE user_id = $1
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3`,
		utils.ToPgUUID(userID), limit, offset,
	)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	return collectRules(rows, op, r.logger)
}

func (r *Repository) SetEnabled(ctx context.Context, userID, ruleID uuid.UUID, enabled bool) error {
	const op string = "repo.alertrule.set_enabled"

	tag, err := r.pool.Exec(ctx,
		`UPDATE alert_rules SET enabled = $3 WHERE id = $1 AND user_id = $2`,
		utils.ToPgUUID(ruleID), utils.ToPgUUID(userID), enabled,
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return utils.WrapRepoError(op, pgx.ErrNoRows, true, r.logger)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID, ruleID uuid.UUID) error {
	const op string = "repo.alertrule.delete"

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM alert_rules WHERE id = $1 AND user_id = $2`,
		utils.ToPgUUID(ruleID), utils.ToPgUUID(userID),
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return utils.WrapRepoError(op, pgx.ErrNoRows, true, r.logger)
	}
	return nil
}

// MarkTriggered commits the cooldown timestamp with an optimistic write keyed
// on the value the evaluation saw. A false return means another evaluation
// got there first and this one's update is discarded, not retried.
func (r *Repository) MarkTriggered(ctx context.Context, ruleID uuid.UUID, prev *time.Time, at time.Time) (bool, error) {
	const op string = "repo.alertrule.mark_triggered"

	tag, err := r.pool.Exec(ctx,
		`UPDATE alert_rules
		 SET last_triggered_at = $3
		 WHERE id = $1 AND last_triggered_at IS NOT DISTINCT FROM $2`,
		utils.ToPgUUID(ruleID),
		utils.ToPgTimestamptzPtr(prev),
		utils.ToPgTimestamptz(at),
	)
	if err != nil {
		return false, utils.WrapRepoError(op, err, false, r.logger)
	}
	return tag.RowsAffected() == 1, nil
}

func collectRules(rows pgx.Rows, op string, log *zerolog.Logger) ([]Rule, error) {
	rules := make([]Rule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, utils.WrapRepoError(op, err, false, log)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, log)
	}
	return rules, nil
}

func scanRule(row pgx.Row) (Rule, error) {
	var (
		id          pgtype.UUID
		userID      pgtype.UUID
		targetID    pgtype.UUID
		ruleType    string
		days        pgtype.Int4
		responseMs  pgtype.Int8
		severity    string
		enabled     bool
		cooldownSec int64
		lastAt      pgtype.Timestamptz
		channels    []string
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(&id, &userID, &targetID, &ruleType, &days, &responseMs, &severity, &enabled, &cooldownSec, &lastAt, &channels, &createdAt)
	if err != nil {
		return Rule{}, err
	}

	rule := Rule{
		ID:                      utils.FromPgUUID(id),
		UserID:                  utils.FromPgUUID(userID),
		TargetID:                utils.FromPgUUIDPtr(targetID),
		Type:                    Type(ruleType),
		ThresholdDays:           utils.FromPgInt4Ptr(days),
		ThresholdResponseTimeMs: utils.FromPgInt8Ptr(responseMs),
		Severity:                Severity(severity),
		Enabled:                 enabled,
		Cooldown:                time.Duration(cooldownSec) * time.Second,
		LastTriggeredAt:         utils.FromPgTimestamptzPtr(lastAt),
		CreatedAt:               utils.FromPgTimestamptz(createdAt),
	}
	for _, c := range channels {
		rule.Channels = append(rule.Channels, Channel(c))
	}
	return rule, nil
}
