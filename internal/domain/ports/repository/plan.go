package repository

import (
	"context"

	"telegram-sport-subscription/internal/domain/model"
)

// PlanRepository is the port for plan persistence. Plans are read-only from
// the payment flow's perspective; Save exists for seeding.
type PlanRepository interface {
	Save(ctx context.Context, qx any, plan *model.Plan) error
	FindByID(ctx context.Context, qx any, id string) (*model.Plan, error)
	FindByName(ctx context.Context, qx any, name string) (*model.Plan, error)
	ListAll(ctx context.Context, qx any) ([]*model.Plan, error)
}
