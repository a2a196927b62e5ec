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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

type TransactionRepo struct{ pool *pgxpool.Pool }

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const txColumns = `id, provider, payment_type, amount, currency, status, user_id, plan_id, selected_sport, external_id, created_at, updated_at`

func (r *TransactionRepo) Save(ctx context.Context, qx any, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (
  id, provider, payment_type, amount, currency, status, user_id, plan_id, selected_sport, external_id, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
) ON CONFLICT (id) DO UPDATE SET
  status=$6, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, qx, q, t.ID, t.Provider, t.PaymentType, t.Amount, t.Currency, t.Status, t.UserID, t.PlanID, t.SelectedSport, t.ExternalID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *TransactionRepo) FindByExternalID(ctx context.Context, qx any, provider model.PaymentProvider, externalID string) (*model.Transaction, error) {
	const q = `SELECT ` + txColumns + ` FROM transactions WHERE external_id=$1 AND provider=$2 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, qx, q, externalID, provider)
	if err != nil {
		return nil, err
	}
	return scanTransaction(row)
}

// TransitionStatus is the single atomic write reconciliation relies on.
// A row moves only out of 'created'; terminal states never change, so two
// racing paid notifications observe exactly one changed=true.
func (r *TransactionRepo) TransitionStatus(ctx context.Context, qx any, id string, target model.TransactionStatus) (bool, error) {
	const q = `UPDATE transactions SET status=$2, updated_at=NOW() WHERE id=$1 AND status='created';`
	tag, err := execSQL(ctx, r.pool, qx, q, id, target)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TransactionRepo) ListRecent(ctx context.Context, qx any, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + txColumns + ` FROM transactions ORDER BY created_at DESC LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, qx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) CountByStatus(ctx context.Context, qx any) (map[model.TransactionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM transactions GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, qx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.TransactionStatus]int)
	for rows.Next() {
		var status model.TransactionStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *TransactionRepo) SumPaidSince(ctx context.Context, qx any, since time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM transactions WHERE status='paid' AND updated_at >= $1;`
	row, err := pickRow(ctx, r.pool, qx, q, since)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	t := &model.Transaction{}
	if err := row.Scan(&t.ID, &t.Provider, &t.PaymentType, &t.Amount, &t.Currency, &t.Status, &t.UserID, &t.PlanID, &t.SelectedSport, &t.ExternalID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
