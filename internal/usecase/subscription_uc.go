package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/repository"
	"telegram-sport-subscription/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// Activate creates a subscription for the user or extends the active one
	// by another plan duration, and returns it with its end date set.
	Activate(ctx context.Context, userID string, plan *model.Plan) (*model.Subscription, error)
	// FinishExpired marks active subscriptions past their end date as
	// finished and returns how many were processed.
	FinishExpired(ctx context.Context, limit int) (int, error)
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, log: logger}
}

func (u *subscriptionUC) Activate(ctx context.Context, userID string, plan *model.Plan) (*model.Subscription, error) {
	if userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	existing, err := u.subs.FindActiveByUser(ctx, nil, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Extend(plan)
		if err := u.subs.Save(ctx, nil, existing); err != nil {
			return nil, err
		}
		u.log.Info().Str("user_id", userID).Str("sub_id", existing.ID).Time("ends_at", existing.EndsAt).Msg("subscription extended")
		metrics.IncSubscriptionsActivated()
		return existing, nil
	}

	sub, err := model.NewSubscription(uuid.NewString(), userID, plan)
	if err != nil {
		return nil, err
	}
	if err := u.subs.Save(ctx, nil, sub); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", userID).Str("sub_id", sub.ID).Time("ends_at", sub.EndsAt).Msg("subscription created")
	metrics.IncSubscriptionsActivated()
	return sub, nil
}

func (u *subscriptionUC) FinishExpired(ctx context.Context, limit int) (int, error) {
	expired, err := u.subs.ListExpired(ctx, nil, time.Now(), limit)
	if err != nil {
		return 0, err
	}
	finished := 0
	for _, s := range expired {
		if err := u.subs.UpdateStatus(ctx, nil, s.ID, model.SubscriptionStatusFinished); err != nil {
			u.log.Error().Err(err).Str("sub_id", s.ID).Msg("failed to finish expired subscription")
			continue
		}
		finished++
	}
	if finished > 0 {
		metrics.IncSubscriptionsExpired(finished)
	}
	return finished, nil
}
