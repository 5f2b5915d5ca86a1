package domain

import (
	"context"
	"time"
)

// GatewayCheckoutStatus values mirror the gateway's checkout session
// lifecycle.
type GatewayCheckoutStatus string

const (
	GatewayCheckoutActive  GatewayCheckoutStatus = "active"
	GatewayCheckoutPaid    GatewayCheckoutStatus = "paid"
	GatewayCheckoutExpired GatewayCheckoutStatus = "expired"
)

type CheckoutInput struct {
	Amount      Money
	Currency    string
	Name        string
	Description string
	SuccessURL  string
	CancelURL   string
	Reference   string
}

type CheckoutSession struct {
	CheckoutID  string
	CheckoutURL string
	ExpiresAt   *time.Time
}

type VerificationResult struct {
	Status           GatewayCheckoutStatus
	GatewayPaymentID string
	PaidAt           *time.Time
}

// RefundResult reports a gateway refund attempt. A failed attempt is
// data, not an error: callers record the outcome in ledger metadata.
type RefundResult struct {
	Success  bool
	RefundID string
	Status   string
	Error    string
}

// PaymentGateway is the external settlement collaborator. Settlement is
// asynchronous: a checkout session is not money until VerifyPayment
// reports it paid. Calls must never run under a held ledger lock.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)
	VerifyPayment(ctx context.Context, checkoutID string) (*VerificationResult, error)
	CreateRefund(ctx context.Context, gatewayPaymentID string, amountCentavos int64, reason string) (*RefundResult, error)
}
