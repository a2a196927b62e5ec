package usecase

import (
	"context"
	"time"

	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type Stats struct {
	TransactionsByStatus map[model.TransactionStatus]int
	RevenueUZS           int64 // paid transactions, all time
	RevenueUZS30d        int64 // paid transactions, last 30 days
}

type StatsUseCase interface {
	Summary(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	transactions repository.TransactionRepository
}

func NewStatsUseCase(transactions repository.TransactionRepository) *statsUC {
	return &statsUC{transactions: transactions}
}

func (u *statsUC) Summary(ctx context.Context) (*Stats, error) {
	counts, err := u.transactions.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	total, err := u.transactions.SumPaidSince(ctx, nil, time.Time{})
	if err != nil {
		return nil, err
	}
	last30, err := u.transactions.SumPaidSince(ctx, nil, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	return &Stats{
		TransactionsByStatus: counts,
		RevenueUZS:           total,
		RevenueUZS30d:        last30,
	}, nil
}
