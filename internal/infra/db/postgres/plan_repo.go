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

var _ repository.PlanRepository = (*PlanRepo)(nil)

type PlanRepo struct{ pool *pgxpool.Pool }

func NewPlanRepo(pool *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

func (r *PlanRepo) Save(ctx context.Context, qx any, p *model.Plan) error {
	const q = `
INSERT INTO plans (id, name, price_uzs, duration_days, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET name=$2, price_uzs=$3, duration_days=$4;`
	_, err := execSQL(ctx, r.pool, qx, q, p.ID, p.Name, p.PriceUZS, p.DurationDays, p.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *PlanRepo) FindByID(ctx context.Context, qx any, id string) (*model.Plan, error) {
	const q = `SELECT id, name, price_uzs, duration_days, created_at FROM plans WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, qx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPlan(row)
}

func (r *PlanRepo) FindByName(ctx context.Context, qx any, name string) (*model.Plan, error) {
	const q = `SELECT id, name, price_uzs, duration_days, created_at FROM plans WHERE name=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, qx, q, name)
	if err != nil {
		return nil, err
	}
	return scanPlan(row)
}

func (r *PlanRepo) ListAll(ctx context.Context, qx any) ([]*model.Plan, error) {
	const q = `SELECT id, name, price_uzs, duration_days, created_at FROM plans ORDER BY name;`
	rows, err := queryRows(ctx, r.pool, qx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(row pgx.Row) (*model.Plan, error) {
	p := &model.Plan{}
	if err := row.Scan(&p.ID, &p.Name, &p.PriceUZS, &p.DurationDays, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
