package usecase

import (
	"github.com/pawlink/pool-service/internal/domain"
)

// GetPoolBalance reads the pool-wide balance breakdown. Held and
// available stay distinct figures: frozen funds are held but not
// available.
func (uc *DefaultLedgerUsecase) GetPoolBalance() (*domain.PoolBalance, error) {
	totalHeld, err := uc.txRepo.SumSignedAmounts(nil, settledStatuses)
	if err != nil {
		return nil, err
	}

	totalFrozen, err := uc.txRepo.SumAmountsByStatus(nil, domain.TxStatusFrozen)
	if err != nil {
		return nil, err
	}

	totalPending, err := uc.txRepo.SumAmountsByStatus(nil, domain.TxStatusPending)
	if err != nil {
		return nil, err
	}

	totalReleased, err := uc.txRepo.SumAmountsByType(domain.TypeRelease, []domain.TransactionStatus{domain.TxStatusCompleted})
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		frozen, _ := totalFrozen.Decimal().Float64()
		uc.Metrics.SetFrozenAmount("PHP", frozen)
	}

	return &domain.PoolBalance{
		TotalHeld:     totalHeld,
		TotalFrozen:   totalFrozen,
		TotalPending:  totalPending,
		TotalReleased: totalReleased,
		Available:     totalHeld.Sub(totalFrozen),
	}, nil
}
