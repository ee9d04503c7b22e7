package account

import (
	"context"
	"errors"

	"certwatch/pkg/apperror"
	"certwatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const accountColumns = `id, name, email, password_hash, targets_count, is_paid_user`

func (r *Repository) Create(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	const op string = "repo.account.create"

	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, name, email, password_hash, targets_count, is_paid_user, created_at)
		 VALUES ($1, $2, $3, $4, 0, FALSE, now())`,
		utils.ToPgUUID(id), name, email, passwordHash,
	)
	if err == nil {
		return id, nil
	}

	// email carries a unique constraint
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return uuid.UUID{}, &apperror.Error{
			Kind:    apperror.AlreadyExists,
			Op:      op,
			Message: "account already exists",
		}
	}
	return uuid.UUID{}, utils.WrapRepoError(op, err, false, r.logger)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	const op string = "repo.account.get_by_id"

	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`,
		utils.ToPgUUID(id),
	)
	acc, err := scanAccount(row)
	if err != nil {
		return Account{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return acc, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Account, error) {
	const op string = "repo.account.get_by_email"

	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		email,
	)
	acc, err := scanAccount(row)
	if err != nil {
		return Account{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return acc, nil
}

// IncrementTargetCount claims one slot of the account's target quota. The
// quota check and the increment are one conditional write, so two concurrent
// creates cannot both claim the last slot.
func (r *Repository) IncrementTargetCount(ctx context.Context, id uuid.UUID) error {
	const op string = "repo.account.increment_target_count"

	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts
		 SET targets_count = targets_count + 1
		 WHERE id = $1
		   AND targets_count < CASE WHEN is_paid_user THEN $2::int ELSE $3::int END`,
		utils.ToPgUUID(id), PaidTargetLimit, FreeTargetLimit,
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return &apperror.Error{
			Kind:    apperror.Forbidden,
			Op:      op,
			Message: "target quota exceeded",
		}
	}
	return nil
}

func (r *Repository) DecrementTargetCount(ctx context.Context, id uuid.UUID) error {
	const op string = "repo.account.decrement_target_count"

	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET targets_count = GREATEST(targets_count - 1, 0) WHERE id = $1`,
		utils.ToPgUUID(id),
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		acc Account
		id  pgtype.UUID
	)
	if err := row.Scan(&id, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.TargetsCount, &acc.IsPaidUser); err != nil {
		return Account{}, err
	}
	acc.ID = utils.FromPgUUID(id)
	return acc, nil
}
