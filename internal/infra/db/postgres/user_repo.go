package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	const q = `
INSERT INTO users (id, telegram_id, username, subscribed_to, registered_at, last_active_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  telegram_id=$2, username=$3, subscribed_to=$4, last_active_at=$6;`
	_, err := execSQL(ctx, r.pool, qx, q, u.ID, u.TelegramID, u.Username, u.SubscribedTo, u.RegisteredAt, u.LastActiveAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	const q = `SELECT id, telegram_id, username, subscribed_to, registered_at, last_active_at FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, qx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *UserRepo) FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error) {
	const q = `SELECT id, telegram_id, username, subscribed_to, registered_at, last_active_at FROM users WHERE telegram_id=$1;`
	row, err := pickRow(ctx, r.pool, qx, q, tgID)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *UserRepo) UpdateSubscribedTo(ctx context.Context, qx any, id, tag string) error {
	const q = `UPDATE users SET subscribed_to=$2, last_active_at=NOW() WHERE id=$1;`
	tag2, err := execSQL(ctx, r.pool, qx, q, id, tag)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag2.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.SubscribedTo, &u.RegisteredAt, &u.LastActiveAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
