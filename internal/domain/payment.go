package domain

import "time"

type PaymentType string

const (
	PaymentCollateral           PaymentType = "collateral"
	PaymentShooterPayment       PaymentType = "shooter_payment"
	PaymentMonetaryCompensation PaymentType = "monetary_compensation"
	PaymentShooterCollateral    PaymentType = "shooter_collateral"
)

type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "pending"
	PaymentAwaitingPayment PaymentStatus = "awaiting_payment"
	PaymentProcessing      PaymentStatus = "processing"
	PaymentPaid            PaymentStatus = "paid"
	PaymentFailed          PaymentStatus = "failed"
	PaymentExpired         PaymentStatus = "expired"
	PaymentRefunded        PaymentStatus = "refunded"
)

// PoolStatus tracks where a payment's funds sit relative to the pool.
type PoolStatus string

const (
	PoolNotPooled         PoolStatus = "not_pooled"
	PoolInPool            PoolStatus = "in_pool"
	PoolFrozen            PoolStatus = "frozen"
	PoolReleased          PoolStatus = "released"
	PoolRefunded          PoolStatus = "refunded"
	PoolPartiallyRefunded PoolStatus = "partially_refunded"
)

// Payment is a single monetary obligation raised by the contract flow.
// It belongs to exactly one contract and one paying user.
type Payment struct {
	ID               string
	UserID           string
	ContractID       string
	Type             PaymentType
	Amount           Money
	Currency         string
	Description      string
	CheckoutID       string
	CheckoutURL      string
	GatewayPaymentID string
	GatewayRefundID  string
	Status           PaymentStatus
	PoolStatus       PoolStatus
	PaidAt           *time.Time
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Payment) IsPaid() bool {
	return p.Status == PaymentPaid
}

func (p *Payment) IsAwaiting() bool {
	switch p.Status {
	case PaymentPending, PaymentAwaitingPayment, PaymentProcessing:
		return true
	}
	return false
}

// IsPoolable reports whether a paid payment of this type enters the
// custodial pool.
func (p *Payment) IsPoolable() bool {
	switch p.Type {
	case PaymentCollateral, PaymentShooterPayment, PaymentMonetaryCompensation, PaymentShooterCollateral:
		return true
	}
	return false
}

type PaymentRepository interface {
	CreatePayment(payment *Payment) error
	GetPaymentByID(id string) (*Payment, error)
	GetPaymentByCheckoutID(checkoutID string) (*Payment, error)
	// FindAwaitingCheckout returns an unfinished checkout for the same
	// user/contract/type, if one exists.
	FindAwaitingCheckout(userID, contractID string, paymentType PaymentType) (*Payment, error)
	MarkPaid(id, gatewayPaymentID string, paidAt time.Time) error
	UpdatePaymentStatus(id string, status PaymentStatus) error
	UpdatePoolStatus(id string, poolStatus PoolStatus) error
	SetGatewayRefundID(id, refundID string) error
	GetContractPayments(contractID string) ([]*Payment, error)
	// GetPooledPayments returns paid payments whose funds currently sit
	// in the pool for a contract, optionally scoped to one user.
	GetPooledPayments(contractID string, userID *string) ([]*Payment, error)
	GetUserPayments(userID string, page, limit int) ([]*Payment, int64, error)
	FindExpiredAwaiting(now time.Time) ([]*Payment, error)
	SumAwaitingDeposits(userID string) (Money, error)
	SumAllAwaitingDeposits() (Money, error)
}
