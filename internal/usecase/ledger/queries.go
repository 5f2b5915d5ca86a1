package usecase

import (
	"github.com/pawlink/pool-service/internal/domain"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
)

func (uc *DefaultLedgerUsecase) GetTransactionByID(transactionID string) (*domain.PoolTransaction, error) {
	return uc.txRepo.GetTransactionByID(transactionID)
}

func (uc *DefaultLedgerUsecase) ListTransactions(input *ledgerdto.ListTransactionsInput) (*ledgerdto.ListTransactionsOutput, error) {
	transactions, total, err := uc.txRepo.ListTransactions(input.Filter)
	if err != nil {
		return nil, err
	}
	return &ledgerdto.ListTransactionsOutput{
		Transactions: transactions,
		Pagination:   ledgerdto.NewPagination(input.Filter.Page, input.Filter.Limit, total),
	}, nil
}

// GetPoolStatistics is the admin dashboard rollup.
func (uc *DefaultLedgerUsecase) GetPoolStatistics() (*domain.PoolStatistics, error) {
	balance, err := uc.GetPoolBalance()
	if err != nil {
		return nil, err
	}

	count, err := uc.txRepo.CountTransactions()
	if err != nil {
		return nil, err
	}

	activeDisputes, err := uc.disputeRepo.CountActiveDisputes()
	if err != nil {
		return nil, err
	}

	fees, err := uc.txRepo.SumAmountsByType(domain.TypeFeeDeduction, settledStatuses)
	if err != nil {
		return nil, err
	}

	return &domain.PoolStatistics{
		Balance:          *balance,
		TransactionCount: count,
		ActiveDisputes:   activeDisputes,
		RevenueFees:      fees,
	}, nil
}

func (uc *DefaultLedgerUsecase) GetMonthlyFlow(year int) ([]*domain.MonthlyPoolFlow, error) {
	return uc.txRepo.GetMonthlyFlow(year)
}

// GetRevenueByType breaks down completed deposit inflow by the payment
// type each deposit carried.
func (uc *DefaultLedgerUsecase) GetRevenueByType() (map[string]domain.Money, error) {
	return uc.txRepo.SumDepositsByPaymentType()
}
