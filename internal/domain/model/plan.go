package model

import (
	"time"

	"telegram-sport-subscription/internal/domain"
)

// Plan is a purchasable offering. Prices are whole UZS.
type Plan struct {
	ID           string
	Name         string
	PriceUZS     int64
	DurationDays int
	CreatedAt    time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, priceUZS int64, durationDays int) (*Plan, error) {
	if id == "" || name == "" || priceUZS <= 0 || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:           id,
		Name:         name,
		PriceUZS:     priceUZS,
		DurationDays: durationDays,
		CreatedAt:    time.Now(),
	}, nil
}
