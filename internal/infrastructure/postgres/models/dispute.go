package models

import "time"

// ActiveFlag backs the partial-unique guard on active disputes: the
// column is non-null only while the dispute is open or under review, so
// the unique index (contract_id, active) admits at most one live row
// per contract even under concurrent inserts.
type DisputeModel struct {
	ID              string `gorm:"primaryKey"`
	ContractID      string `gorm:"type:uuid;not null;index;uniqueIndex:idx_one_active_dispute,composite:contract_active"`
	RaisedBy        string `gorm:"type:uuid;not null;index"`
	Reason          string `gorm:"not null"`
	Status          string `gorm:"not null;index"`
	Active          *bool  `gorm:"uniqueIndex:idx_one_active_dispute,composite:contract_active"`
	ResolutionType  string
	ResolvedAmount  *int64
	ResolutionNotes string
	ResolvedBy      string
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}
