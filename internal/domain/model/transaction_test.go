package model

import (
	"testing"

	"telegram-sport-subscription/internal/domain"
)

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		in   string
		want TransactionStatus
		ok   bool
	}{
		{"paid", TransactionStatusPaid, true},
		{"captured", TransactionStatusPaid, true},
		{"canceled", TransactionStatusCanceled, true},
		{"failed", TransactionStatusCanceled, true},
		{"rejected", TransactionStatusCanceled, true},
		{"pending", "", false},
		{"waiting_for_capture", "", false},
		{"", "", false},
		{"PAID", "", false}, // vocabulary is lowercase; anything else is unrecognized
	}
	for _, c := range cases {
		got, ok := MapGatewayStatus(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("MapGatewayStatus(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestTransactionStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to TransactionStatus
		want     bool
	}{
		{TransactionStatusCreated, TransactionStatusPaid, true},
		{TransactionStatusCreated, TransactionStatusCanceled, true},
		{TransactionStatusCreated, TransactionStatusCreated, true},
		{TransactionStatusPaid, TransactionStatusPaid, true},
		{TransactionStatusCanceled, TransactionStatusCanceled, true},
		{TransactionStatusPaid, TransactionStatusCanceled, false},
		{TransactionStatusCanceled, TransactionStatusPaid, false},
		{TransactionStatusPaid, TransactionStatusCreated, false},
		{TransactionStatusCanceled, TransactionStatusCreated, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(ProviderOcto, PaymentTypeOneTime, 50000, "UZS", "u1", "p1", "wrestling", "ext-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != TransactionStatusCreated {
		t.Errorf("new transaction status = %s, want created", tx.Status)
	}
	if tx.ID == "" {
		t.Error("expected generated id")
	}

	if _, err := NewTransaction(ProviderOcto, PaymentTypeOneTime, 0, "UZS", "u1", "p1", "wrestling", "ext-1"); err != domain.ErrInvalidArgument {
		t.Errorf("zero amount: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewTransaction(ProviderOcto, PaymentTypeOneTime, 100, "UZS", "u1", "p1", "wrestling", ""); err != domain.ErrInvalidArgument {
		t.Errorf("missing external id: err = %v, want ErrInvalidArgument", err)
	}
}
