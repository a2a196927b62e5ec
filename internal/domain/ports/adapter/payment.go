package adapter

import (
	"context"

	"telegram-sport-subscription/internal/domain/model"
)

// PrepareRequest is what the orchestrator asks the gateway to set up.
// Provider-specific payload construction (credentials, timestamps, urls)
// lives behind the gateway implementation.
type PrepareRequest struct {
	ShopTransactionID string // our correlation id, echoed back by the provider
	Amount            int64
	Currency          string
	Description       string
	Test              bool
}

// PreparedPayment is the provider's answer to a successful prepare call.
type PreparedPayment struct {
	PaymentID string // provider-assigned payment UUID
	PayURL    string // where to redirect the user
}

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() model.PaymentProvider
	// PreparePayment registers a payment intent with the provider and returns
	// the redirect target. Any provider-side rejection surfaces as an error;
	// nothing must be persisted locally in that case.
	PreparePayment(ctx context.Context, req PrepareRequest) (*PreparedPayment, error)
}
