package model

import (
	"time"

	"telegram-sport-subscription/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusFinished SubscriptionStatus = "finished"
)

// Subscription is a user's channel access entitlement. EndsAt is what the
// post-payment message reports back to the user.
type Subscription struct {
	ID        string // UUID
	UserID    string
	PlanID    string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    SubscriptionStatus
	CreatedAt time.Time
}

// NewSubscription creates an active subscription running plan.DurationDays
// from now.
func NewSubscription(id, userID string, plan *Plan) (*Subscription, error) {
	if id == "" || userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:        id,
		UserID:    userID,
		PlanID:    plan.ID,
		StartsAt:  now,
		EndsAt:    now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
		Status:    SubscriptionStatusActive,
		CreatedAt: now,
	}, nil
}

// Extend pushes the end date out by another plan duration. An already
// expired subscription restarts from now.
func (s *Subscription) Extend(plan *Plan) {
	base := s.EndsAt
	if time.Now().After(base) {
		base = time.Now()
	}
	s.EndsAt = base.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
	s.Status = SubscriptionStatusActive
}

func (s *Subscription) IsExpired() bool { return time.Now().After(s.EndsAt) }
