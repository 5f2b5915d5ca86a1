package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/request"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/response"
	"github.com/pawlink/pool-service/internal/domain"
	admindto "github.com/pawlink/pool-service/internal/usecase/dto/admin"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
	adminuc "github.com/pawlink/pool-service/internal/usecase/admin"
	disputeuc "github.com/pawlink/pool-service/internal/usecase/dispute"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
)

type AdminHandler struct {
	adminUc   adminuc.AdminUsecase
	disputeUc disputeuc.DisputeUsecase
	ledgerUc  ledgeruc.LedgerUsecase
}

func NewAdminHandler(adminUc adminuc.AdminUsecase, disputeUc disputeuc.DisputeUsecase, ledgerUc ledgeruc.LedgerUsecase) *AdminHandler {
	return &AdminHandler{adminUc: adminUc, disputeUc: disputeUc, ledgerUc: ledgerUc}
}

func adminID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-Admin-ID")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-Admin-ID header is required"})
		return "", false
	}
	return id, true
}

// ResolveDispute handles PUT /admin/disputes/{id}/resolve.
func (h *AdminHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminID(w, r)
	if !ok {
		return
	}

	var req request.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := &disputedto.ResolveDisputeInput{
		DisputeID:       mux.Vars(r)["id"],
		ResolutionType:  domain.ResolutionType(req.ResolutionType),
		ResolutionNotes: req.ResolutionNotes,
		AdminID:         admin,
	}
	if req.ResolvedAmount != nil {
		amount, err := domain.ParseMoney(*req.ResolvedAmount)
		if err != nil {
			writeError(w, err)
			return
		}
		input.ResolvedAmount = &amount
	}

	dispute, err := h.disputeUc.ResolveDispute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDispute(dispute))
}

// DismissDispute handles PUT /admin/disputes/{id}/dismiss.
func (h *AdminHandler) DismissDispute(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminID(w, r)
	if !ok {
		return
	}

	var req request.ResolveDisputeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	dispute, err := h.disputeUc.DismissDispute(r.Context(), &disputedto.DismissDisputeInput{
		DisputeID:       mux.Vars(r)["id"],
		ResolutionNotes: req.ResolutionNotes,
		AdminID:         admin,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDispute(dispute))
}

// FreezeTransaction handles PUT /admin/transactions/{id}/freeze.
func (h *AdminHandler) FreezeTransaction(w http.ResponseWriter, r *http.Request) {
	h.toggleFreeze(w, r, true)
}

// UnfreezeTransaction handles PUT /admin/transactions/{id}/unfreeze.
func (h *AdminHandler) UnfreezeTransaction(w http.ResponseWriter, r *http.Request) {
	h.toggleFreeze(w, r, false)
}

func (h *AdminHandler) toggleFreeze(w http.ResponseWriter, r *http.Request, freeze bool) {
	admin, ok := adminID(w, r)
	if !ok {
		return
	}

	var req request.FreezeTransactionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	input := &admindto.FreezeTransactionInput{
		TransactionID: mux.Vars(r)["id"],
		AdminID:       admin,
		Reason:        req.Reason,
	}

	var tx *domain.PoolTransaction
	var err error
	if freeze {
		tx, err = h.adminUc.FreezeTransaction(r.Context(), input)
	} else {
		tx, err = h.adminUc.UnfreezeTransaction(r.Context(), input)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromTransaction(tx))
}

// ForceRelease handles POST /admin/transactions/{id}/force-release.
func (h *AdminHandler) ForceRelease(w http.ResponseWriter, r *http.Request) {
	admin, ok := adminID(w, r)
	if !ok {
		return
	}

	var req request.FreezeTransactionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	refund, err := h.adminUc.ForceRelease(r.Context(), &admindto.ForceReleaseInput{
		TransactionID: mux.Vars(r)["id"],
		AdminID:       admin,
		Reason:        req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromTransaction(refund))
}

// ExportTransactions handles GET /admin/pool/export.
func (h *AdminHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminID(w, r); !ok {
		return
	}

	query := r.URL.Query()
	input := &admindto.ExportTransactionsInput{Format: query.Get("format")}
	if raw := query.Get("type"); raw != "" {
		txType := domain.TransactionType(raw)
		input.Type = &txType
	}
	if raw := query.Get("from"); raw != "" {
		if from, err := time.Parse("2006-01-02", raw); err == nil {
			input.From = &from
		}
	}
	if raw := query.Get("to"); raw != "" {
		if to, err := time.Parse("2006-01-02", raw); err == nil {
			end := to.Add(24*time.Hour - time.Nanosecond)
			input.To = &end
		}
	}

	data, contentType, err := h.adminUc.ExportTransactions(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := "pool-transactions." + map[string]string{"text/csv": "csv", "application/pdf": "pdf"}[contentType]
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetPoolStats handles GET /admin/pool/stats.
func (h *AdminHandler) GetPoolStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminID(w, r); !ok {
		return
	}

	stats, err := h.ledgerUc.GetPoolStatistics()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.PoolStatisticsResponse{
		Balance:          response.FromPoolBalance(&stats.Balance),
		TransactionCount: stats.TransactionCount,
		ActiveDisputes:   stats.ActiveDisputes,
		RevenueFees:      stats.RevenueFees.String(),
	})
}

// GetRevenueByType handles GET /admin/pool/revenue.
func (h *AdminHandler) GetRevenueByType(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminID(w, r); !ok {
		return
	}

	revenue, err := h.ledgerUc.GetRevenueByType()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make(map[string]string, len(revenue))
	for paymentType, amount := range revenue {
		out[paymentType] = amount.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"revenue_by_type": out})
}

// GetMonthlyFlow handles GET /admin/pool/monthly-flow.
func (h *AdminHandler) GetMonthlyFlow(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminID(w, r); !ok {
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			year = parsed
		}
	}

	flows, err := h.ledgerUc.GetMonthlyFlow(year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromMonthlyFlows(flows))
}
