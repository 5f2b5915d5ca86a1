package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/request"
	"github.com/pawlink/pool-service/internal/delivery/http/dto/response"
	"github.com/pawlink/pool-service/internal/domain"
	paymentdto "github.com/pawlink/pool-service/internal/usecase/dto/payment"
	paymentuc "github.com/pawlink/pool-service/internal/usecase/payment"
)

type PaymentHandler struct {
	paymentUc paymentuc.PaymentUsecase
}

func NewPaymentHandler(paymentUc paymentuc.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUc: paymentUc}
}

// CreateCheckout handles POST /payments/checkout.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-User-ID header is required"})
		return
	}

	var req request.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := h.paymentUc.CreateCheckout(r.Context(), &paymentdto.CreateCheckoutInput{
		UserID:      userID,
		ContractID:  req.ContractID,
		Type:        domain.PaymentType(req.PaymentType),
		Amount:      amount,
		Currency:    req.Currency,
		Description: req.Description,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response.CheckoutResponse{
		PaymentID:   output.PaymentID,
		CheckoutURL: output.CheckoutURL,
		ExpiresAt:   output.ExpiresAt,
	})
}

// VerifyPayment handles GET /payments/{id}/verify.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["id"]
	output, err := h.paymentUc.VerifyPayment(r.Context(), paymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.VerifyPaymentResponse{
		PaymentID: output.PaymentID,
		Status:    string(output.Status),
		PaidAt:    output.PaidAt,
	})
}

// GetMyPayments handles GET /payments for the calling user.
func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-User-ID header is required"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	output, err := h.paymentUc.GetUserPayments(&paymentdto.ListPaymentsInput{UserID: userID, Page: page, Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payments":    response.FromPayments(output.Payments),
		"total_items": output.TotalItems,
	})
}

// HandleWebhook handles POST /webhooks/paymongo.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	signature := r.Header.Get("Paymongo-Signature")
	if err := h.paymentUc.HandleWebhook(r.Context(), payload, signature); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
