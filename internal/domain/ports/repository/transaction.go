package repository

import (
	"context"
	"time"

	"telegram-sport-subscription/internal/domain/model"
)

// TransactionRepository is the port for the durable payment-attempt store.
// The qx argument optionally carries a pgx transaction/conn; pass nil to use
// the pool.
type TransactionRepository interface {
	Save(ctx context.Context, qx any, t *model.Transaction) error
	FindByExternalID(ctx context.Context, qx any, provider model.PaymentProvider, externalID string) (*model.Transaction, error)
	// TransitionStatus applies created -> target as one conditional write and
	// reports whether a row actually moved. It never overwrites a terminal
	// status, which is what makes the paid-side-effect trigger race free.
	TransitionStatus(ctx context.Context, qx any, id string, target model.TransactionStatus) (changed bool, err error)
	ListRecent(ctx context.Context, qx any, limit int) ([]*model.Transaction, error)
	CountByStatus(ctx context.Context, qx any) (map[model.TransactionStatus]int, error)
	SumPaidSince(ctx context.Context, qx any, since time.Time) (int64, error)
}
