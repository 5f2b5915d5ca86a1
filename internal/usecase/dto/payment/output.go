package paymentdto

import (
	"time"

	"github.com/pawlink/pool-service/internal/domain"
)

type CreateCheckoutOutput struct {
	PaymentID   string
	CheckoutURL string
	ExpiresAt   *time.Time
}

type VerifyPaymentOutput struct {
	PaymentID string
	Status    domain.PaymentStatus
	PaidAt    *time.Time
}

type ListPaymentsOutput struct {
	Payments   []*domain.Payment
	TotalItems int64
}
