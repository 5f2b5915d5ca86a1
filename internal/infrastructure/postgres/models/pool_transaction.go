package models

import "time"

type PoolTransactionModel struct {
	ID           string  `gorm:"primaryKey;type:uuid"`
	PaymentID    *string `gorm:"type:uuid;index"`
	ContractID   string  `gorm:"type:uuid;index:idx_contract_status,priority:1"`
	UserID       string  `gorm:"type:uuid;index"`
	Type         string  `gorm:"not null;index"`
	Amount       int64   `gorm:"not null"`
	Currency     string  `gorm:"not null"`
	BalanceAfter int64   `gorm:"not null"`
	Status       string  `gorm:"not null;index:idx_contract_status,priority:2"`
	Description  string
	Metadata     string `gorm:"type:jsonb"`
	ProcessedAt  time.Time
	ProcessedBy  string
	CreatedAt    time.Time `gorm:"index:idx_pool_tx_created_at"`
	UpdatedAt    time.Time
}

func (PoolTransactionModel) TableName() string {
	return "pool_transactions"
}
