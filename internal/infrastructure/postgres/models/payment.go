package models

import "time"

type PaymentModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	UserID           string `gorm:"type:uuid;index"`
	ContractID       string `gorm:"type:uuid;index"`
	Type             string `gorm:"not null"`
	Amount           int64  `gorm:"not null"`
	Currency         string `gorm:"not null"`
	Description      string
	CheckoutID       string `gorm:"index"`
	CheckoutURL      string
	GatewayPaymentID string `gorm:"index"`
	GatewayRefundID  string
	Status           string `gorm:"not null;index:idx_payment_status_expires,priority:1"`
	PoolStatus       string `gorm:"not null"`
	PaidAt           *time.Time
	ExpiresAt        *time.Time `gorm:"index:idx_payment_status_expires,priority:2"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
