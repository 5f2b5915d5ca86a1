package response

import (
	"time"

	"github.com/pawlink/pool-service/internal/domain"
)

type TransactionResponse struct {
	ID           string     `json:"id"`
	PaymentID    *string    `json:"payment_id,omitempty"`
	ContractID   string     `json:"contract_id"`
	UserID       string     `json:"user_id"`
	Type         string     `json:"type"`
	Amount       string     `json:"amount"`
	Currency     string     `json:"currency"`
	BalanceAfter string     `json:"balance_after"`
	Status       string     `json:"status"`
	Description  string     `json:"description,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func FromTransaction(tx *domain.PoolTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:           tx.ID,
		PaymentID:    tx.PaymentID,
		ContractID:   tx.ContractID,
		UserID:       tx.UserID,
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		Currency:     tx.Currency,
		BalanceAfter: tx.BalanceAfter.String(),
		Status:       string(tx.Status),
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
	if !tx.ProcessedAt.IsZero() {
		processedAt := tx.ProcessedAt
		resp.ProcessedAt = &processedAt
	}
	return resp
}

func FromTransactions(transactions []*domain.PoolTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		out[i] = FromTransaction(tx)
	}
	return out
}

type PoolBalanceResponse struct {
	TotalHeld     string `json:"total_held"`
	TotalFrozen   string `json:"total_frozen"`
	TotalPending  string `json:"total_pending"`
	TotalReleased string `json:"total_released"`
	Available     string `json:"available"`
}

func FromPoolBalance(balance *domain.PoolBalance) PoolBalanceResponse {
	return PoolBalanceResponse{
		TotalHeld:     balance.TotalHeld.String(),
		TotalFrozen:   balance.TotalFrozen.String(),
		TotalPending:  balance.TotalPending.String(),
		TotalReleased: balance.TotalReleased.String(),
		Available:     balance.Available.String(),
	}
}

type ContractPoolSummaryResponse struct {
	ContractID     string                `json:"contract_id"`
	TotalDeposited string                `json:"total_deposited"`
	TotalReleased  string                `json:"total_released"`
	TotalRefunded  string                `json:"total_refunded"`
	TotalFees      string                `json:"total_fees"`
	NetBalance     string                `json:"net_balance"`
	FrozenAmount   string                `json:"frozen_amount"`
	FrozenCount    int                   `json:"frozen_count"`
	HasDispute     bool                  `json:"has_dispute"`
	Transactions   []TransactionResponse `json:"transactions"`
}

func FromContractPoolSummary(summary *domain.ContractPoolSummary) ContractPoolSummaryResponse {
	return ContractPoolSummaryResponse{
		ContractID:     summary.ContractID,
		TotalDeposited: summary.TotalDeposited.String(),
		TotalReleased:  summary.TotalReleased.String(),
		TotalRefunded:  summary.TotalRefunded.String(),
		TotalFees:      summary.TotalFees.String(),
		NetBalance:     summary.NetBalance.String(),
		FrozenAmount:   summary.FrozenAmount.String(),
		FrozenCount:    summary.FrozenCount,
		HasDispute:     summary.HasDispute,
		Transactions:   FromTransactions(summary.Transactions),
	}
}

type PaginationResponse struct {
	CurrentPage  int64 `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int64 `json:"items_per_page"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationResponse    `json:"pagination"`
}

type PoolStatisticsResponse struct {
	Balance          PoolBalanceResponse `json:"balance"`
	TransactionCount int64               `json:"transaction_count"`
	ActiveDisputes   int64               `json:"active_disputes"`
	RevenueFees      string              `json:"revenue_fees"`
}

type MonthlyFlowResponse struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Deposits string `json:"deposits"`
	Releases string `json:"releases"`
	Refunds  string `json:"refunds"`
	Fees     string `json:"fees"`
}

func FromMonthlyFlows(flows []*domain.MonthlyPoolFlow) []MonthlyFlowResponse {
	out := make([]MonthlyFlowResponse, len(flows))
	for i, flow := range flows {
		out[i] = MonthlyFlowResponse{
			Year:     flow.Year,
			Month:    flow.Month,
			Deposits: flow.Deposits.String(),
			Releases: flow.Releases.String(),
			Refunds:  flow.Refunds.String(),
			Fees:     flow.Fees.String(),
		}
	}
	return out
}
