package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pawlink/pool-service/internal/delivery/http/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all endpoints. Admin routes trust the X-Admin-ID
// header; authentication itself lives at the perimeter.
func NewRouter(
	poolHandler *handlers.PoolHandler,
	paymentHandler *handlers.PaymentHandler,
	disputeHandler *handlers.DisputeHandler,
	adminHandler *handlers.AdminHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/payments/checkout", paymentHandler.CreateCheckout).Methods(http.MethodPost)
	router.HandleFunc("/payments/{id}/verify", paymentHandler.VerifyPayment).Methods(http.MethodGet)
	router.HandleFunc("/payments", paymentHandler.GetMyPayments).Methods(http.MethodGet)
	router.HandleFunc("/webhooks/paymongo", paymentHandler.HandleWebhook).Methods(http.MethodPost)

	router.HandleFunc("/pool/balance", poolHandler.GetPoolBalance).Methods(http.MethodGet)
	router.HandleFunc("/pool/transactions", poolHandler.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/pool/my-transactions", poolHandler.GetMyTransactions).Methods(http.MethodGet)
	router.HandleFunc("/contracts/{id}/pool-summary", poolHandler.GetContractPoolSummary).Methods(http.MethodGet)

	router.HandleFunc("/disputes", disputeHandler.CreateDispute).Methods(http.MethodPost)
	router.HandleFunc("/disputes", disputeHandler.ListDisputes).Methods(http.MethodGet)
	router.HandleFunc("/disputes/{id}", disputeHandler.GetDispute).Methods(http.MethodGet)

	router.HandleFunc("/admin/disputes/{id}/resolve", adminHandler.ResolveDispute).Methods(http.MethodPut)
	router.HandleFunc("/admin/disputes/{id}/dismiss", adminHandler.DismissDispute).Methods(http.MethodPut)
	router.HandleFunc("/admin/transactions/{id}/freeze", adminHandler.FreezeTransaction).Methods(http.MethodPut)
	router.HandleFunc("/admin/transactions/{id}/unfreeze", adminHandler.UnfreezeTransaction).Methods(http.MethodPut)
	router.HandleFunc("/admin/transactions/{id}/force-release", adminHandler.ForceRelease).Methods(http.MethodPost)
	router.HandleFunc("/admin/pool/export", adminHandler.ExportTransactions).Methods(http.MethodGet)
	router.HandleFunc("/admin/pool/stats", adminHandler.GetPoolStats).Methods(http.MethodGet)
	router.HandleFunc("/admin/pool/monthly-flow", adminHandler.GetMonthlyFlow).Methods(http.MethodGet)
	router.HandleFunc("/admin/pool/revenue", adminHandler.GetRevenueByType).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}
