package usecase

import (
	"github.com/pawlink/pool-service/internal/domain"
)

// GetContractPoolSummary reduces a contract's ledger entries into the
// derived per-contract view. Pure read; safe concurrent with writes.
func (uc *DefaultLedgerUsecase) GetContractPoolSummary(contractID string) (*domain.ContractPoolSummary, error) {
	transactions, err := uc.txRepo.GetContractTransactions(contractID)
	if err != nil {
		return nil, err
	}

	summary := &domain.ContractPoolSummary{
		ContractID:   contractID,
		Transactions: transactions,
	}

	for _, tx := range transactions {
		if tx.IsFrozen() {
			summary.FrozenAmount = summary.FrozenAmount.Add(tx.Amount)
			summary.FrozenCount++
		}
		if !tx.IsSettled() {
			continue
		}
		switch tx.Type {
		case domain.TypeDeposit:
			summary.TotalDeposited = summary.TotalDeposited.Add(tx.Amount)
		case domain.TypeRelease:
			summary.TotalReleased = summary.TotalReleased.Add(tx.Amount)
		case domain.TypeRefund:
			summary.TotalRefunded = summary.TotalRefunded.Add(tx.Amount)
		case domain.TypeFeeDeduction:
			summary.TotalFees = summary.TotalFees.Add(tx.Amount)
		}
		summary.NetBalance = summary.NetBalance.Add(tx.SignedAmount())
	}

	hasDispute, err := uc.disputeRepo.HasActiveDispute(contractID)
	if err != nil {
		return nil, err
	}
	summary.HasDispute = hasDispute

	return summary, nil
}
