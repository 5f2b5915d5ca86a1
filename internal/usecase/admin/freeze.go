package usecase

import (
	"context"

	"github.com/pawlink/pool-service/internal/domain"
	admindto "github.com/pawlink/pool-service/internal/usecase/dto/admin"
)

// FreezeTransaction puts a single settled entry under freeze. Freezing
// an already-frozen or pending entry is rejected, not silently ignored.
func (adminUc *DefaultAdminUsecase) FreezeTransaction(ctx context.Context, input *admindto.FreezeTransactionInput) (*domain.PoolTransaction, error) {
	tx, err := adminUc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.IsFrozen() {
		return nil, domain.ErrTransactionFrozen
	}
	if !tx.IsCompleted() {
		return nil, domain.ErrTransactionNotSettled
	}

	if err := adminUc.txRepo.UpdateTransactionStatus(tx.ID, domain.TxStatusFrozen); err != nil {
		return nil, err
	}
	tx.Status = domain.TxStatusFrozen

	adminUc.logAction(ctx, "freeze_transaction", input.AdminID, tx, input.Reason)
	return tx, nil
}

// UnfreezeTransaction reverses a single-entry freeze.
func (adminUc *DefaultAdminUsecase) UnfreezeTransaction(ctx context.Context, input *admindto.FreezeTransactionInput) (*domain.PoolTransaction, error) {
	tx, err := adminUc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, err
	}
	if !tx.IsFrozen() {
		return nil, domain.ErrTransactionNotFrozen
	}

	if err := adminUc.txRepo.UpdateTransactionStatus(tx.ID, domain.TxStatusCompleted); err != nil {
		return nil, err
	}
	tx.Status = domain.TxStatusCompleted

	adminUc.logAction(ctx, "unfreeze_transaction", input.AdminID, tx, input.Reason)
	return tx, nil
}
