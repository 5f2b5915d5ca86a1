package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/request"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/response"
	"github.com/pawlink/pool-service/internal/domain"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
	disputeuc "github.com/pawlink/pool-service/internal/usecase/dispute"
)

type DisputeHandler struct {
	disputeUc disputeuc.DisputeUsecase
}

func NewDisputeHandler(disputeUc disputeuc.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUc: disputeUc}
}

// CreateDispute handles POST /disputes.
func (h *DisputeHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-User-ID header is required"})
		return
	}

	var req request.CreateDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ContractID == "" || req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "contract_id and reason are required"})
		return
	}

	dispute, err := h.disputeUc.CreateDispute(r.Context(), &disputedto.CreateDisputeInput{
		ContractID: req.ContractID,
		RaisedBy:   userID,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromDispute(dispute))
}

// GetDispute handles GET /disputes/{id}.
func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.disputeUc.GetDisputeByID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDispute(dispute))
}

// ListDisputes handles GET /disputes for the calling user.
func (h *DisputeHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-User-ID header is required"})
		return
	}

	filter := disputeFilterFromQuery(r)
	filter.RaisedBy = &userID

	output, err := h.disputeUc.ListDisputes(&disputedto.ListDisputesInput{Filter: filter})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.DisputeListResponse{
		Disputes: response.FromDisputes(output.Disputes),
		Pagination: response.PaginationResponse{
			CurrentPage:  output.Pagination.CurrentPage,
			TotalPages:   output.Pagination.TotalPages,
			TotalItems:   output.Pagination.TotalItems,
			ItemsPerPage: output.Pagination.ItemsPerPage,
		},
	})
}

func disputeFilterFromQuery(r *http.Request) domain.DisputeFilter {
	query := r.URL.Query()
	filter := domain.DisputeFilter{Page: 1, Limit: 50}

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
	if raw := query.Get("status"); raw != "" {
		disputeStatus := domain.DisputeStatus(raw)
		filter.Status = &disputeStatus
	}
	if raw := query.Get("contract_id"); raw != "" {
		contractID := raw
		filter.ContractID = &contractID
	}
	return filter
}
