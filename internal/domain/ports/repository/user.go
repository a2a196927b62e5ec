package repository

import (
	"context"

	"telegram-sport-subscription/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, qx any, u *model.User) error
	FindByID(ctx context.Context, qx any, id string) (*model.User, error)
	FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error)
	// UpdateSubscribedTo sets the user's category tag after a paid transaction.
	UpdateSubscribedTo(ctx context.Context, qx any, id, tag string) error
}
