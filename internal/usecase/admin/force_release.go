package usecase

import (
	"context"
	"fmt"

	"github.com/pawlink/pool-service/internal/domain"
	admindto "github.com/pawlink/pool-service/internal/usecase/dto/admin"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ForceRelease returns a deposited amount to its payer by admin
// decision. The refund entry is appended no matter what the gateway
// says: a failed gateway leg leaves the entry pending with the error in
// metadata, and the retry sweep finishes the job.
func (adminUc *DefaultAdminUsecase) ForceRelease(ctx context.Context, input *admindto.ForceReleaseInput) (*domain.PoolTransaction, error) {
	tx, err := adminUc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Type != domain.TypeDeposit {
		return nil, status.Error(codes.FailedPrecondition, "only deposit entries can be force-released")
	}

	if tx.IsFrozen() {
		if err := adminUc.txRepo.UpdateTransactionStatus(tx.ID, domain.TxStatusCompleted); err != nil {
			return nil, err
		}
		tx.Status = domain.TxStatusCompleted
	}

	reason := input.Reason
	if reason == "" {
		reason = "admin force release"
	}
	metadata := domain.TransactionMetadata{AdminID: input.AdminID, Note: reason}

	var refund *domain.PoolTransaction
	if tx.PaymentID != nil {
		payment, perr := adminUc.paymentRepo.GetPaymentByID(*tx.PaymentID)
		if perr != nil {
			return nil, perr
		}
		refund, err = adminUc.ledgerUc.RefundPooledPayment(ctx, payment, tx.Amount, reason, input.AdminID, metadata)
	} else {
		refund, err = adminUc.ledgerUc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
			ContractID:  tx.ContractID,
			UserID:      tx.UserID,
			Type:        domain.TypeRefund,
			Amount:      tx.Amount,
			Currency:    tx.Currency,
			Description: fmt.Sprintf("%s (deposit %s)", reason, tx.ID),
			Metadata:    metadata,
			ProcessedBy: input.AdminID,
		})
	}
	if err != nil {
		return nil, err
	}

	adminUc.logAction(ctx, "force_release", input.AdminID, refund, reason)
	return refund, nil
}
