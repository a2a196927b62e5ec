package repository

import (
	"context"
	"time"

	"telegram-sport-subscription/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, qx any, s *model.Subscription) error
	FindActiveByUser(ctx context.Context, qx any, userID string) (*model.Subscription, error)
	ListExpired(ctx context.Context, qx any, asOf time.Time, limit int) ([]*model.Subscription, error)
	UpdateStatus(ctx context.Context, qx any, id string, status model.SubscriptionStatus) error
}
