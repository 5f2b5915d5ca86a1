package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/paymongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError translates domain sentinels and grpc status codes coming
// out of the usecases into HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrSubCentavoAmount),
		errors.Is(err, domain.ErrUnknownTransactionType),
		errors.Is(err, domain.ErrPaymentNotPoolable),
		errors.Is(err, domain.ErrCurrencyMismatch):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDisputeAlreadyActive):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDisputeNotActive),
		errors.Is(err, domain.ErrContractNotDisputable),
		errors.Is(err, domain.ErrTransactionFrozen),
		errors.Is(err, domain.ErrTransactionNotFrozen),
		errors.Is(err, domain.ErrTransactionNotSettled),
		errors.Is(err, domain.ErrRefundExceedsBalance),
		errors.Is(err, domain.ErrPoolHalted):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrLedgerContention):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrLedgerIntegrity):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	case errors.Is(err, paymongo.ErrInvalidSignature):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCheckoutFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
			writeJSON(w, httpStatusFromCode(st.Code()), errorResponse{Error: st.Message()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.Aborted:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.DataLoss:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
