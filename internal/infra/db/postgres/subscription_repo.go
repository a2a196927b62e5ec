package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

type SubscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

func (r *SubscriptionRepo) Save(ctx context.Context, qx any, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, user_id, plan_id, starts_at, ends_at, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  plan_id=$3, ends_at=$5, status=$6;`
	_, err := execSQL(ctx, r.pool, qx, q, s.ID, s.UserID, s.PlanID, s.StartsAt, s.EndsAt, s.Status, s.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *SubscriptionRepo) FindActiveByUser(ctx context.Context, qx any, userID string) (*model.Subscription, error) {
	const q = `SELECT id, user_id, plan_id, starts_at, ends_at, status, created_at FROM subscriptions WHERE user_id=$1 AND status='active' ORDER BY ends_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, qx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *SubscriptionRepo) ListExpired(ctx context.Context, qx any, asOf time.Time, limit int) ([]*model.Subscription, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT id, user_id, plan_id, starts_at, ends_at, status, created_at FROM subscriptions WHERE status='active' AND ends_at < $1 ORDER BY ends_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, qx, q, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, qx any, id string, status model.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, qx, q, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
