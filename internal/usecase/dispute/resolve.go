package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ResolveDispute applies a resolution exactly once. The terminal check
// runs again under the contract lock so concurrent resolutions cannot
// both move funds.
func (disputeUc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, input *disputedto.ResolveDisputeInput) (*domain.Dispute, error) {
	if !domain.IsKnownResolutionType(input.ResolutionType) {
		return nil, status.Error(codes.InvalidArgument, "unknown resolution type")
	}
	if input.AdminID == "" {
		return nil, status.Error(codes.InvalidArgument, "admin id is required")
	}

	dispute, err := disputeUc.disputeRepo.GetDisputeByID(input.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.IsTerminal() {
		return nil, domain.ErrDisputeNotActive
	}

	lock := disputeUc.locks.forContract(dispute.ContractID)
	lock.Lock()
	defer lock.Unlock()

	dispute, err = disputeUc.disputeRepo.GetDisputeByID(input.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.IsTerminal() {
		return nil, domain.ErrDisputeNotActive
	}

	contract, err := disputeUc.contractRepo.GetContractByID(dispute.ContractID)
	if err != nil {
		return nil, err
	}

	if input.ResolutionType == domain.ResolutionRefundPartial {
		if input.ResolvedAmount == nil || !input.ResolvedAmount.IsPositive() {
			return nil, status.Error(codes.InvalidArgument, "partial refund requires a positive resolved amount")
		}
		balance, berr := disputeUc.txRepo.SumSignedAmounts(&dispute.ContractID, []domain.TransactionStatus{domain.TxStatusCompleted, domain.TxStatusFrozen})
		if berr != nil {
			return nil, berr
		}
		// Rejected before any custody change so the contract stays
		// frozen under its open dispute.
		if input.ResolvedAmount.Cmp(balance) > 0 {
			return nil, domain.ErrRefundExceedsBalance
		}
	}

	// Custody first: frozen entries go back to completed before any
	// fund movement, so refunds and releases act on a live ledger.
	if _, err := disputeUc.ledgerUc.UnfreezeContractFunds(dispute.ContractID); err != nil {
		return nil, err
	}

	var resolvedAmount domain.Money
	switch input.ResolutionType {
	case domain.ResolutionRefundFull:
		resolvedAmount, err = disputeUc.refundRaiser(ctx, dispute, input.AdminID, nil)
	case domain.ResolutionRefundPartial:
		resolvedAmount, err = disputeUc.refundRaiser(ctx, dispute, input.AdminID, input.ResolvedAmount)
	case domain.ResolutionReleaseFunds:
		resolvedAmount, err = disputeUc.releaseToCounterparty(ctx, contract, dispute, input.AdminID)
	case domain.ResolutionForfeit:
		resolvedAmount, err = disputeUc.forfeitRaiserFunds(ctx, contract, dispute, input.AdminID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dispute.Status = domain.DisputeResolved
	dispute.ResolutionType = input.ResolutionType
	dispute.ResolvedAmount = &resolvedAmount
	dispute.ResolutionNotes = input.ResolutionNotes
	dispute.ResolvedBy = input.AdminID
	dispute.ResolvedAt = &now
	if err := disputeUc.disputeRepo.FinalizeDispute(dispute); err != nil {
		return nil, err
	}

	if disputeUc.auditLogger != nil {
		_ = disputeUc.auditLogger.LogDisputeResolved(ctx, logger.DisputeResolvedEvent{
			DisputeID:      dispute.ID,
			ContractID:     dispute.ContractID,
			ResolvedBy:     input.AdminID,
			ResolutionType: string(input.ResolutionType),
			ResolvedAmount: resolvedAmount.Centavos(),
			Currency:       "PHP",
			Notes:          input.ResolutionNotes,
		})
	}
	if disputeUc.Metrics != nil {
		disputeUc.Metrics.RecordDisputeResolved(string(input.ResolutionType))
	}
	disputeUc.publishDisputeEvent(dispute)

	return dispute, nil
}

// refundRaiser refunds the dispute raiser's pooled payments. With a nil
// cap every payment is refunded in full; otherwise refunds stop once
// the cap is consumed.
func (disputeUc *DefaultDisputeUsecase) refundRaiser(ctx context.Context, dispute *domain.Dispute, adminID string, cap *domain.Money) (domain.Money, error) {
	payments, err := disputeUc.paymentRepo.GetPooledPayments(dispute.ContractID, &dispute.RaisedBy)
	if err != nil {
		return domain.Money{}, err
	}

	var refunded domain.Money
	remaining := domain.Money{}
	if cap != nil {
		remaining = *cap
	}

	for _, payment := range payments {
		amount := payment.Amount
		if cap != nil {
			if !remaining.IsPositive() {
				break
			}
			if amount.Cmp(remaining) > 0 {
				amount = remaining
			}
		}

		_, err := disputeUc.ledgerUc.RefundPooledPayment(ctx, payment, amount,
			fmt.Sprintf("dispute %s resolution refund", dispute.ID), adminID,
			domain.TransactionMetadata{DisputeID: dispute.ID, AdminID: adminID})
		if err != nil {
			return refunded, err
		}

		refunded = refunded.Add(amount)
		if cap != nil {
			remaining = remaining.Sub(amount)
		}
	}
	return refunded, nil
}

// releaseToCounterparty moves the raiser's pooled funds to the other
// contract party as release entries. The payout itself happens
// off-platform.
func (disputeUc *DefaultDisputeUsecase) releaseToCounterparty(ctx context.Context, contract *domain.Contract, dispute *domain.Dispute, adminID string) (domain.Money, error) {
	recipient := contract.CounterpartyOf(dispute.RaisedBy)

	payments, err := disputeUc.paymentRepo.GetPooledPayments(dispute.ContractID, &dispute.RaisedBy)
	if err != nil {
		return domain.Money{}, err
	}

	var released domain.Money
	for _, payment := range payments {
		paymentID := payment.ID
		_, err := disputeUc.ledgerUc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
			PaymentID:   &paymentID,
			ContractID:  dispute.ContractID,
			UserID:      recipient,
			Type:        domain.TypeRelease,
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Description: fmt.Sprintf("dispute %s resolution release to counterparty", dispute.ID),
			Metadata: domain.TransactionMetadata{
				DisputeID:   dispute.ID,
				AdminID:     adminID,
				PaymentType: string(payment.Type),
				Note:        "released from " + dispute.RaisedBy,
			},
			ProcessedBy: adminID,
		})
		if err != nil {
			return released, err
		}
		if err := disputeUc.paymentRepo.UpdatePoolStatus(payment.ID, domain.PoolReleased); err != nil {
			return released, err
		}
		released = released.Add(payment.Amount)
	}
	return released, nil
}

// forfeitRaiserFunds routes the raiser's pooled funds to platform
// revenue as fee deductions and refunds the counterparty in full.
func (disputeUc *DefaultDisputeUsecase) forfeitRaiserFunds(ctx context.Context, contract *domain.Contract, dispute *domain.Dispute, adminID string) (domain.Money, error) {
	raiserPayments, err := disputeUc.paymentRepo.GetPooledPayments(dispute.ContractID, &dispute.RaisedBy)
	if err != nil {
		return domain.Money{}, err
	}

	var forfeited domain.Money
	for _, payment := range raiserPayments {
		paymentID := payment.ID
		_, err := disputeUc.ledgerUc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
			PaymentID:   &paymentID,
			ContractID:  dispute.ContractID,
			UserID:      payment.UserID,
			Type:        domain.TypeFeeDeduction,
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Description: fmt.Sprintf("dispute %s forfeit to platform", dispute.ID),
			Metadata: domain.TransactionMetadata{
				DisputeID:      dispute.ID,
				AdminID:        adminID,
				PaymentType:    string(payment.Type),
				OriginalAmount: payment.Amount.String(),
			},
			ProcessedBy: adminID,
		})
		if err != nil {
			return forfeited, err
		}
		if err := disputeUc.paymentRepo.UpdatePoolStatus(payment.ID, domain.PoolReleased); err != nil {
			return forfeited, err
		}
		forfeited = forfeited.Add(payment.Amount)
	}

	counterparty := contract.CounterpartyOf(dispute.RaisedBy)
	counterpartyPayments, err := disputeUc.paymentRepo.GetPooledPayments(dispute.ContractID, &counterparty)
	if err != nil {
		return forfeited, err
	}
	for _, payment := range counterpartyPayments {
		_, err := disputeUc.ledgerUc.RefundPooledPayment(ctx, payment, payment.Amount,
			fmt.Sprintf("dispute %s forfeit counterparty refund", dispute.ID), adminID,
			domain.TransactionMetadata{DisputeID: dispute.ID, AdminID: adminID})
		if err != nil {
			return forfeited, err
		}
	}

	return forfeited, nil
}
