package usecase

import (
	"context"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	"github.com/pawlink/pool-service/internal/infrastructure/metrics"
	admindto "github.com/pawlink/pool-service/internal/usecase/dto/admin"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
)

type AdminUsecase interface {
	FreezeTransaction(ctx context.Context, input *admindto.FreezeTransactionInput) (*domain.PoolTransaction, error)
	UnfreezeTransaction(ctx context.Context, input *admindto.FreezeTransactionInput) (*domain.PoolTransaction, error)
	ForceRelease(ctx context.Context, input *admindto.ForceReleaseInput) (*domain.PoolTransaction, error)
	ExportTransactions(ctx context.Context, input *admindto.ExportTransactionsInput) ([]byte, string, error)
}

type DefaultAdminUsecase struct {
	txRepo      domain.PoolTransactionRepository
	paymentRepo domain.PaymentRepository
	ledgerUc    ledgeruc.LedgerUsecase
	auditLogger logger.AuditLogger
	Metrics     *metrics.PoolMetrics
}

func NewDefaultAdminUsecase(
	txRepo domain.PoolTransactionRepository,
	paymentRepo domain.PaymentRepository,
	ledgerUc ledgeruc.LedgerUsecase,
	auditLogger logger.AuditLogger,
	poolMetrics *metrics.PoolMetrics,
) *DefaultAdminUsecase {
	return &DefaultAdminUsecase{
		txRepo:      txRepo,
		paymentRepo: paymentRepo,
		ledgerUc:    ledgerUc,
		auditLogger: auditLogger,
		Metrics:     poolMetrics,
	}
}

func (adminUc *DefaultAdminUsecase) logAction(ctx context.Context, action, adminID string, tx *domain.PoolTransaction, reason string) {
	if adminUc.auditLogger == nil {
		return
	}
	_ = adminUc.auditLogger.LogAdminAction(ctx, logger.AdminActionEvent{
		AdminID:       adminID,
		Action:        action,
		ContractID:    tx.ContractID,
		TransactionID: tx.ID,
		Amount:        tx.Amount.Centavos(),
		Currency:      tx.Currency,
		Reason:        reason,
	})
}
