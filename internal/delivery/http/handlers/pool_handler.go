package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/response"
	"github.com/pawlink/pool-service/internal/domain"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
)

type PoolHandler struct {
	ledgerUc ledgeruc.LedgerUsecase
}

func NewPoolHandler(ledgerUc ledgeruc.LedgerUsecase) *PoolHandler {
	return &PoolHandler{ledgerUc: ledgerUc}
}

// GetPoolBalance handles GET /pool/balance.
func (h *PoolHandler) GetPoolBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerUc.GetPoolBalance()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromPoolBalance(balance))
}

// ListTransactions handles GET /pool/transactions.
func (h *PoolHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := transactionFilterFromQuery(r)
	result, err := h.ledgerUc.ListTransactions(&ledgerdto.ListTransactionsInput{Filter: filter})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.TransactionListResponse{
		Transactions: response.FromTransactions(result.Transactions),
		Pagination: response.PaginationResponse{
			CurrentPage:  result.Pagination.CurrentPage,
			TotalPages:   result.Pagination.TotalPages,
			TotalItems:   result.Pagination.TotalItems,
			ItemsPerPage: result.Pagination.ItemsPerPage,
		},
	})
}

// GetMyTransactions handles GET /pool/my-transactions for the caller
// identified by X-User-ID.
func (h *PoolHandler) GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-User-ID header is required"})
		return
	}
	filter := transactionFilterFromQuery(r)
	filter.UserID = &userID

	result, err := h.ledgerUc.ListTransactions(&ledgerdto.ListTransactionsInput{Filter: filter})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.TransactionListResponse{
		Transactions: response.FromTransactions(result.Transactions),
		Pagination: response.PaginationResponse{
			CurrentPage:  result.Pagination.CurrentPage,
			TotalPages:   result.Pagination.TotalPages,
			TotalItems:   result.Pagination.TotalItems,
			ItemsPerPage: result.Pagination.ItemsPerPage,
		},
	})
}

// GetContractPoolSummary handles GET /contracts/{id}/pool-summary.
func (h *PoolHandler) GetContractPoolSummary(w http.ResponseWriter, r *http.Request) {
	contractID := mux.Vars(r)["id"]
	summary, err := h.ledgerUc.GetContractPoolSummary(contractID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromContractPoolSummary(summary))
}

func transactionFilterFromQuery(r *http.Request) domain.TransactionFilter {
	query := r.URL.Query()
	filter := domain.TransactionFilter{Page: 1, Limit: 50}

	if raw := query.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if raw := query.Get("type"); raw != "" {
		txType := domain.TransactionType(raw)
		filter.Type = &txType
	}
	if raw := query.Get("status"); raw != "" {
		txStatus := domain.TransactionStatus(raw)
		filter.Status = &txStatus
	}
	if raw := query.Get("contract_id"); raw != "" {
		contractID := raw
		filter.ContractID = &contractID
	}
	if raw := query.Get("from"); raw != "" {
		if from, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &from
		}
	}
	if raw := query.Get("to"); raw != "" {
		if to, err := time.Parse("2006-01-02", raw); err == nil {
			end := to.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
	}
	return filter
}
