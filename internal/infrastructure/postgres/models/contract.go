package models

import "time"

// ContractModel is reference data synced from the contract service.
type ContractModel struct {
	ID                     string `gorm:"primaryKey;type:uuid"`
	Status                 string `gorm:"not null;index"`
	OwnerUserID            string `gorm:"type:uuid"`
	CounterpartyUserID     string `gorm:"type:uuid"`
	ShooterUserID          string `gorm:"type:uuid"`
	CancellationFeePercent float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (ContractModel) TableName() string {
	return "breeding_contracts"
}
