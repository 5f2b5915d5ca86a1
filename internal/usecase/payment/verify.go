package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	paymentdto "github.com/pawlink/pool-service/internal/usecase/dto/payment"
)

// VerifyPayment asks the gateway for the checkout verdict and, on a
// paid result, marks the payment paid and credits the pool with exactly
// one deposit entry. Safe to call any number of times; the gateway call
// happens outside any ledger lock.
func (uc *DefaultPaymentUsecase) VerifyPayment(ctx context.Context, paymentID string) (*paymentdto.VerifyPaymentOutput, error) {
	payment, err := uc.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}

	if payment.IsPaid() {
		// A crash between MarkPaid and the ledger append leaves a paid
		// payment with no deposit; re-crediting here is idempotent.
		if err := uc.depositToPool(ctx, payment); err != nil {
			return nil, err
		}
		return &paymentdto.VerifyPaymentOutput{
			PaymentID: payment.ID,
			Status:    payment.Status,
			PaidAt:    payment.PaidAt,
		}, nil
	}
	if !payment.IsAwaiting() {
		return &paymentdto.VerifyPaymentOutput{PaymentID: payment.ID, Status: payment.Status}, nil
	}

	started := time.Now()
	result, err := uc.gateway.VerifyPayment(ctx, payment.CheckoutID)
	if uc.Metrics != nil {
		uc.Metrics.RecordGatewayCall("verify_payment", time.Since(started).Seconds(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("verifying checkout %s: %w", payment.CheckoutID, err)
	}

	switch result.Status {
	case domain.GatewayCheckoutPaid:
		paidAt := time.Now()
		if result.PaidAt != nil {
			paidAt = *result.PaidAt
		}
		if err := uc.paymentRepo.MarkPaid(payment.ID, result.GatewayPaymentID, paidAt); err != nil {
			return nil, err
		}
		payment.Status = domain.PaymentPaid
		payment.GatewayPaymentID = result.GatewayPaymentID
		payment.PaidAt = &paidAt

		if err := uc.depositToPool(ctx, payment); err != nil {
			return nil, err
		}
		return &paymentdto.VerifyPaymentOutput{PaymentID: payment.ID, Status: payment.Status, PaidAt: payment.PaidAt}, nil

	case domain.GatewayCheckoutExpired:
		if err := uc.paymentRepo.UpdatePaymentStatus(payment.ID, domain.PaymentExpired); err != nil {
			return nil, err
		}
		return &paymentdto.VerifyPaymentOutput{PaymentID: payment.ID, Status: domain.PaymentExpired}, nil
	}

	return &paymentdto.VerifyPaymentOutput{PaymentID: payment.ID, Status: payment.Status}, nil
}

// depositToPool credits the ledger for a paid payment exactly once.
func (uc *DefaultPaymentUsecase) depositToPool(ctx context.Context, payment *domain.Payment) error {
	if !payment.IsPoolable() {
		return domain.ErrPaymentNotPoolable
	}

	exists, err := uc.txRepo.HasDepositForPayment(payment.ID)
	if err != nil {
		return err
	}
	if exists {
		slog.Info("deposit already recorded, skipping", "payment_id", payment.ID)
		return nil
	}

	paymentID := payment.ID
	_, err = uc.ledgerUc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		PaymentID:   &paymentID,
		ContractID:  payment.ContractID,
		UserID:      payment.UserID,
		Type:        domain.TypeDeposit,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: fmt.Sprintf("%s deposit to pool", payment.Type),
		Metadata: domain.TransactionMetadata{
			PaymentType:      string(payment.Type),
			GatewayPaymentID: payment.GatewayPaymentID,
		},
		ProcessedBy: payment.UserID,
	})
	if err != nil && !errors.Is(err, domain.ErrDepositAlreadyRecorded) {
		return err
	}

	return uc.paymentRepo.UpdatePoolStatus(payment.ID, domain.PoolInPool)
}
