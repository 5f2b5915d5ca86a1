package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type AdminActionEvent struct {
	ID            uint `gorm:"primaryKey"`
	AdminID       string
	Action        string
	ContractID    string
	TransactionID string
	DisputeID     string
	Amount        int64
	Currency      string
	Reason        string
	Timestamp     time.Time
}

type DisputeResolvedEvent struct {
	ID             uint `gorm:"primaryKey"`
	DisputeID      string
	ContractID     string
	ResolvedBy     string
	ResolutionType string
	ResolvedAmount int64
	Currency       string
	Notes          string
	Timestamp      time.Time
}

type AuditLogger interface {
	LogAdminAction(ctx context.Context, event AdminActionEvent) error
	LogDisputeResolved(ctx context.Context, event DisputeResolvedEvent) error
}

type PGAuditLogger struct {
	db *gorm.DB
}

func NewPGAuditLogger(db *gorm.DB) *PGAuditLogger {
	return &PGAuditLogger{db: db}
}

func (l *PGAuditLogger) LogAdminAction(ctx context.Context, event AdminActionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGAuditLogger) LogDisputeResolved(ctx context.Context, event DisputeResolvedEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return l.db.WithContext(ctx).Create(&event).Error
}
