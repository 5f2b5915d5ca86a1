package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pawlink/pool-service/internal/domain"
	publisher "github.com/pawlink/pool-service/internal/infrastructure/kafka"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
)

var settledStatuses = []domain.TransactionStatus{
	domain.TxStatusCompleted,
	domain.TxStatusFrozen,
}

// RecordTransaction appends one ledger entry. For settled entries the
// running balance is read and stamped inside the pool write lock; for
// pending entries BalanceAfter stays zero until completion.
func (uc *DefaultLedgerUsecase) RecordTransaction(ctx context.Context, input *ledgerdto.RecordTransactionInput) (*domain.PoolTransaction, error) {
	if !domain.IsKnownTransactionType(input.Type) {
		return nil, domain.ErrUnknownTransactionType
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	if uc.isHalted() {
		return nil, domain.ErrPoolHalted
	}

	currency := input.Currency
	if currency == "" {
		currency = "PHP"
	}
	if err := uc.checkContractCurrency(input.ContractID, currency); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TxStatusCompleted
	}

	metadata := input.Metadata
	metadata.Version = domain.MetadataVersion

	tx := &domain.PoolTransaction{
		ID:          uuid.New().String(),
		PaymentID:   input.PaymentID,
		ContractID:  input.ContractID,
		UserID:      input.UserID,
		Type:        input.Type,
		Amount:      input.Amount,
		Currency:    currency,
		Status:      status,
		Description: input.Description,
		Metadata:    metadata,
		ProcessedBy: input.ProcessedBy,
	}

	if err := uc.acquirePoolLock(ctx, "record_transaction"); err != nil {
		return nil, err
	}
	defer uc.releasePoolLock()

	balance, err := uc.verifyChainLocked(input.ContractID)
	if err != nil {
		return nil, err
	}

	// A payment credits the pool at most once; the check holds the pool
	// lock so two concurrent verifications cannot both append.
	if tx.Type == domain.TypeDeposit && tx.PaymentID != nil {
		exists, err := uc.txRepo.HasDepositForPayment(*tx.PaymentID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDepositAlreadyRecorded
		}
	}

	if tx.Status != domain.TxStatusPending {
		tx.BalanceAfter = balance.Add(tx.SignedAmount())
		tx.ProcessedAt = time.Now()
	}

	if err := uc.txRepo.CreateTransaction(tx); err != nil {
		return nil, err
	}

	uc.recordTransactionMetrics(tx)
	uc.publishPoolEvent(tx)

	return tx, nil
}

// CompletePendingTransaction flips a pending entry to completed,
// recomputing its running balance at completion time.
func (uc *DefaultLedgerUsecase) CompletePendingTransaction(ctx context.Context, transactionID string, metadata domain.TransactionMetadata) error {
	tx, err := uc.txRepo.GetTransactionByID(transactionID)
	if err != nil {
		return err
	}
	if !tx.IsPending() {
		// Already settled; completion retries are a no-op.
		return nil
	}

	if err := uc.acquirePoolLock(ctx, "complete_transaction"); err != nil {
		return err
	}
	defer uc.releasePoolLock()

	balance, err := uc.verifyChainLocked(tx.ContractID)
	if err != nil {
		return err
	}

	metadata.Version = domain.MetadataVersion
	balanceAfter := balance.Add(tx.SignedAmount())
	if err := uc.txRepo.CompleteTransaction(transactionID, balanceAfter, metadata); err != nil {
		return err
	}

	tx.Status = domain.TxStatusCompleted
	tx.BalanceAfter = balanceAfter
	uc.recordTransactionMetrics(tx)
	uc.publishPoolEvent(tx)
	return nil
}

// verifyChainLocked checks the last settled entry's stamped balance
// against the recomputed running sum and returns the current balance.
// Must be called with the pool lock held.
func (uc *DefaultLedgerUsecase) verifyChainLocked(contractID string) (domain.Money, error) {
	sum, err := uc.txRepo.SumSignedAmounts(nil, settledStatuses)
	if err != nil {
		return domain.Money{}, err
	}

	last, err := uc.txRepo.GetLastSettledTransaction()
	if err != nil {
		return domain.Money{}, err
	}
	if last != nil && last.BalanceAfter.Cmp(sum) != 0 {
		uc.haltPool(contractID)
		slog.Error("ledger balance chain mismatch",
			"contract_id", contractID,
			"last_transaction_id", last.ID,
			"stamped", last.BalanceAfter.String(),
			"recomputed", sum.String())
		return domain.Money{}, domain.ErrLedgerIntegrity
	}

	return sum, nil
}

func (uc *DefaultLedgerUsecase) recordTransactionMetrics(tx *domain.PoolTransaction) {
	if uc.Metrics == nil {
		return
	}
	amount, _ := tx.Amount.Decimal().Float64()
	uc.Metrics.RecordTransaction(string(tx.Type), string(tx.Status), tx.Currency, amount)
	if tx.Type == domain.TypeFeeDeduction && tx.IsCompleted() {
		uc.Metrics.RecordPlatformFee(tx.Currency, amount)
	}
}

func (uc *DefaultLedgerUsecase) publishPoolEvent(tx *domain.PoolTransaction) {
	if uc.kafkaPublisher == nil {
		return
	}
	go func(event publisher.PoolEvent) {
		if err := uc.kafkaPublisher.PublishPoolEvent(PoolEventsTopic, event); err != nil {
			slog.Error("failed to publish kafka pool event", "transaction_id", event.TransactionID, "error", err.Error())
		}
	}(publisher.PoolEvent{
		TransactionID: tx.ID,
		ContractID:    tx.ContractID,
		UserID:        tx.UserID,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		Amount:        tx.Amount.String(),
		Currency:      tx.Currency,
	})
}

// checkContractCurrency rejects a write whose currency differs from the
// contract's existing ledger entries.
func (uc *DefaultLedgerUsecase) checkContractCurrency(contractID, currency string) error {
	existing, _, err := uc.txRepo.ListTransactions(domain.TransactionFilter{
		ContractID: &contractID,
		Page:       1,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 && existing[0].Currency != currency {
		return domain.ErrCurrencyMismatch
	}
	return nil
}
