package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
)

// FreezeContractFunds flips all completed contract entries to frozen.
// Custody state only; no new ledger entries are written.
func (uc *DefaultLedgerUsecase) FreezeContractFunds(contractID string) (int64, error) {
	affected, err := uc.txRepo.FreezeContractTransactions(contractID)
	if err != nil {
		return 0, err
	}
	if err := uc.setPooledPaymentsStatus(contractID, domain.PoolFrozen); err != nil {
		return affected, err
	}
	return affected, nil
}

func (uc *DefaultLedgerUsecase) UnfreezeContractFunds(contractID string) (int64, error) {
	affected, err := uc.txRepo.UnfreezeContractTransactions(contractID)
	if err != nil {
		return 0, err
	}
	if err := uc.setFrozenPaymentsStatus(contractID, domain.PoolInPool); err != nil {
		return affected, err
	}
	return affected, nil
}

// ReleaseCollateral returns pooled collateral to its payers when a
// contract completes. Release entries debit the pool; the payout itself
// happens off-platform.
func (uc *DefaultLedgerUsecase) ReleaseCollateral(ctx context.Context, contractID, processedBy string) error {
	return uc.releaseByTypes(ctx, contractID, processedBy,
		[]domain.PaymentType{domain.PaymentCollateral, domain.PaymentShooterCollateral},
		"collateral release on contract completion")
}

// ReleaseShooterPayment pays out pooled shooter payments on fulfillment.
func (uc *DefaultLedgerUsecase) ReleaseShooterPayment(ctx context.Context, contractID, processedBy string) error {
	return uc.releaseByTypes(ctx, contractID, processedBy,
		[]domain.PaymentType{domain.PaymentShooterPayment, domain.PaymentMonetaryCompensation},
		"shooter payment release on contract fulfillment")
}

func (uc *DefaultLedgerUsecase) releaseByTypes(ctx context.Context, contractID, processedBy string, types []domain.PaymentType, description string) error {
	payments, err := uc.paymentRepo.GetPooledPayments(contractID, nil)
	if err != nil {
		return err
	}

	wanted := make(map[domain.PaymentType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	for _, payment := range payments {
		if !wanted[payment.Type] {
			continue
		}
		paymentID := payment.ID
		_, err := uc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
			PaymentID:   &paymentID,
			ContractID:  contractID,
			UserID:      payment.UserID,
			Type:        domain.TypeRelease,
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Description: description,
			Metadata: domain.TransactionMetadata{
				PaymentType:      string(payment.Type),
				GatewayPaymentID: payment.GatewayPaymentID,
			},
			ProcessedBy: processedBy,
		})
		if err != nil {
			return fmt.Errorf("releasing payment %s: %w", payment.ID, err)
		}
		if err := uc.paymentRepo.UpdatePoolStatus(payment.ID, domain.PoolReleased); err != nil {
			return err
		}
	}
	return nil
}

// HandleCancellation refunds both parties. The cancelling party pays
// the contract's cancellation fee, deducted as platform revenue before
// its refund.
func (uc *DefaultLedgerUsecase) HandleCancellation(ctx context.Context, contractID, cancelledBy string) error {
	contract, err := uc.contractRepo.GetContractByID(contractID)
	if err != nil {
		return err
	}

	payments, err := uc.paymentRepo.GetPooledPayments(contractID, nil)
	if err != nil {
		return err
	}

	for _, payment := range payments {
		refundAmount := payment.Amount

		if payment.UserID == cancelledBy && contract.CancellationFeePercent > 0 {
			fee := payment.Amount.Percent(contract.CancellationFeePercent)
			if fee.IsPositive() {
				paymentID := payment.ID
				_, err := uc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
					PaymentID:   &paymentID,
					ContractID:  contractID,
					UserID:      payment.UserID,
					Type:        domain.TypeFeeDeduction,
					Amount:      fee,
					Currency:    payment.Currency,
					Description: fmt.Sprintf("cancellation fee (%.1f%%)", contract.CancellationFeePercent),
					Metadata: domain.TransactionMetadata{
						PaymentType:    string(payment.Type),
						OriginalAmount: payment.Amount.String(),
					},
					ProcessedBy: cancelledBy,
				})
				if err != nil {
					return fmt.Errorf("deducting cancellation fee for payment %s: %w", payment.ID, err)
				}
				refundAmount = refundAmount.Sub(fee)
			}
		}

		if !refundAmount.IsPositive() {
			continue
		}
		_, err := uc.RefundPooledPayment(ctx, payment, refundAmount, "refund on contract cancellation", cancelledBy, domain.TransactionMetadata{})
		if err != nil {
			return err
		}
	}
	return nil
}

// RefundPooledPayment attempts the gateway refund first, outside any
// ledger lock, then appends the refund entry. A failed gateway call
// leaves the entry pending for the retry sweep; the ledger always
// records the decision.
func (uc *DefaultLedgerUsecase) RefundPooledPayment(ctx context.Context, payment *domain.Payment, amount domain.Money, reason, processedBy string, metadata domain.TransactionMetadata) (*domain.PoolTransaction, error) {
	status := domain.TxStatusCompleted
	metadata.PaymentType = string(payment.Type)
	metadata.GatewayPaymentID = payment.GatewayPaymentID
	metadata.OriginalAmount = payment.Amount.String()

	if payment.GatewayPaymentID != "" {
		started := time.Now()
		result, err := uc.gateway.CreateRefund(ctx, payment.GatewayPaymentID, amount.Centavos(), reason)
		if uc.Metrics != nil {
			uc.Metrics.RecordGatewayCall("create_refund", time.Since(started).Seconds(), err)
		}
		switch {
		case err != nil:
			status = domain.TxStatusPending
			metadata.GatewayError = err.Error()
		case !result.Success:
			status = domain.TxStatusPending
			metadata.GatewayError = result.Error
		default:
			metadata.GatewayRefundID = result.RefundID
			metadata.RefundStatus = result.Status
			if err := uc.paymentRepo.SetGatewayRefundID(payment.ID, result.RefundID); err != nil {
				return nil, err
			}
		}
	}

	paymentID := payment.ID
	tx, err := uc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		PaymentID:   &paymentID,
		ContractID:  payment.ContractID,
		UserID:      payment.UserID,
		Type:        domain.TypeRefund,
		Amount:      amount,
		Currency:    payment.Currency,
		Status:      status,
		Description: reason,
		Metadata:    metadata,
		ProcessedBy: processedBy,
	})
	if err != nil {
		return nil, err
	}

	poolStatus := domain.PoolRefunded
	if amount.Cmp(payment.Amount) < 0 {
		poolStatus = domain.PoolPartiallyRefunded
	}
	if err := uc.paymentRepo.UpdatePoolStatus(payment.ID, poolStatus); err != nil {
		return tx, err
	}

	return tx, nil
}

// RetryPendingRefunds re-attempts gateway refunds for entries left
// pending by an earlier failure and completes them on success.
func (uc *DefaultLedgerUsecase) RetryPendingRefunds(ctx context.Context) error {
	pending, err := uc.txRepo.FindPendingRefunds()
	if err != nil {
		return err
	}

	for _, tx := range pending {
		metadata := tx.Metadata
		if metadata.GatewayPaymentID == "" {
			// No gateway leg to retry; the admin decision stands.
			if err := uc.CompletePendingTransaction(ctx, tx.ID, metadata); err != nil {
				return err
			}
			continue
		}

		started := time.Now()
		result, err := uc.gateway.CreateRefund(ctx, metadata.GatewayPaymentID, tx.Amount.Centavos(), tx.Description)
		if uc.Metrics != nil {
			uc.Metrics.RecordGatewayCall("create_refund", time.Since(started).Seconds(), err)
		}
		if err != nil {
			slog.Warn("pending refund retry failed", "transaction_id", tx.ID, "error", err.Error())
			continue
		}
		if !result.Success {
			slog.Warn("pending refund retry rejected by gateway", "transaction_id", tx.ID, "gateway_error", result.Error)
			continue
		}

		metadata.GatewayRefundID = result.RefundID
		metadata.RefundStatus = result.Status
		metadata.GatewayError = ""
		if err := uc.CompletePendingTransaction(ctx, tx.ID, metadata); err != nil {
			return err
		}
		if tx.PaymentID != nil {
			if err := uc.paymentRepo.SetGatewayRefundID(*tx.PaymentID, result.RefundID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (uc *DefaultLedgerUsecase) setPooledPaymentsStatus(contractID string, poolStatus domain.PoolStatus) error {
	payments, err := uc.paymentRepo.GetPooledPayments(contractID, nil)
	if err != nil {
		return err
	}
	for _, payment := range payments {
		if err := uc.paymentRepo.UpdatePoolStatus(payment.ID, poolStatus); err != nil {
			return err
		}
	}
	return nil
}

func (uc *DefaultLedgerUsecase) setFrozenPaymentsStatus(contractID string, poolStatus domain.PoolStatus) error {
	payments, err := uc.paymentRepo.GetContractPayments(contractID)
	if err != nil {
		return err
	}
	for _, payment := range payments {
		if payment.PoolStatus == domain.PoolFrozen {
			if err := uc.paymentRepo.UpdatePoolStatus(payment.ID, poolStatus); err != nil {
				return err
			}
		}
	}
	return nil
}
