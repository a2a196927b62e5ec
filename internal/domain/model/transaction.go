package model

import (
	"time"

	"telegram-sport-subscription/internal/domain"

	"github.com/google/uuid"
)

type PaymentProvider string

const (
	ProviderOcto PaymentProvider = "octo"
)

type PaymentType string

const (
	PaymentTypeOneTime   PaymentType = "one_time"
	PaymentTypeRecurrent PaymentType = "recurrent"
)

type TransactionStatus string

const (
	TransactionStatusCreated  TransactionStatus = "created"
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusCanceled TransactionStatus = "canceled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusPaid || s == TransactionStatusCanceled
}

// CanTransition reports whether moving from s to target is allowed.
// The lifecycle is monotone: created -> {paid, canceled}, terminal states
// only allow the idempotent self-transition.
func (s TransactionStatus) CanTransition(target TransactionStatus) bool {
	if s == target {
		return true
	}
	return s == TransactionStatusCreated && target.IsTerminal()
}

// MapGatewayStatus maps Octo's status vocabulary onto the local lifecycle.
// ok is false for vocabulary we do not recognize (intermediate provider
// states); those must be tolerated by the caller, not treated as errors.
func MapGatewayStatus(s string) (status TransactionStatus, ok bool) {
	switch s {
	case "paid", "captured":
		return TransactionStatusPaid, true
	case "canceled", "failed", "rejected":
		return TransactionStatusCanceled, true
	default:
		return "", false
	}
}

// Transaction records one payment attempt against the gateway. It is the
// store of record for reconciling asynchronous gateway notifications and is
// never deleted, only transitioned.
type Transaction struct {
	ID            string // UUID
	Provider      PaymentProvider
	PaymentType   PaymentType
	Amount        int64  // minor currency unit (UZS tiyin-free integer sums)
	Currency      string // "UZS"
	Status        TransactionStatus
	UserID        string
	PlanID        string
	SelectedSport string // selection tag the user picked at checkout
	ExternalID    string // gateway payment UUID; sole correlation key for notifications
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction builds a created-state transaction. The external id must
// already be known: a record only exists once the gateway accepted the
// prepare request.
func NewTransaction(provider PaymentProvider, pt PaymentType, amount int64, currency, userID, planID, selectedSport, externalID string) (*Transaction, error) {
	if amount <= 0 || userID == "" || planID == "" || externalID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Transaction{
		ID:            uuid.NewString(),
		Provider:      provider,
		PaymentType:   pt,
		Amount:        amount,
		Currency:      currency,
		Status:        TransactionStatusCreated,
		UserID:        userID,
		PlanID:        planID,
		SelectedSport: selectedSport,
		ExternalID:    externalID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
