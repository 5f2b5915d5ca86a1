package response

import (
	"time"

	"github.com/pawlink/pool-service/internal/domain"
)

type CheckoutResponse struct {
	PaymentID   string     `json:"payment_id"`
	CheckoutURL string     `json:"checkout_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type VerifyPaymentResponse struct {
	PaymentID string     `json:"payment_id"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type PaymentResponse struct {
	ID          string     `json:"id"`
	ContractID  string     `json:"contract_id"`
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	PoolStatus  string     `json:"pool_status"`
	CheckoutURL string     `json:"checkout_url,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromPayment(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		ContractID:  payment.ContractID,
		UserID:      payment.UserID,
		Type:        string(payment.Type),
		Amount:      payment.Amount.String(),
		Currency:    payment.Currency,
		Status:      string(payment.Status),
		PoolStatus:  string(payment.PoolStatus),
		CheckoutURL: payment.CheckoutURL,
		PaidAt:      payment.PaidAt,
		ExpiresAt:   payment.ExpiresAt,
		CreatedAt:   payment.CreatedAt,
	}
}

func FromPayments(payments []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		out[i] = FromPayment(payment)
	}
	return out
}
