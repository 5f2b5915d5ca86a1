package mappers

import (
	"encoding/json"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.PoolTransactionModel) *domain.PoolTransaction {
	var metadata domain.TransactionMetadata
	if model.Metadata != "" {
		// Metadata written by this service always unmarshals; a decode
		// failure leaves the zero value rather than dropping the row.
		_ = json.Unmarshal([]byte(model.Metadata), &metadata)
	}
	return &domain.PoolTransaction{
		ID:           model.ID,
		PaymentID:    model.PaymentID,
		ContractID:   model.ContractID,
		UserID:       model.UserID,
		Type:         domain.TransactionType(model.Type),
		Amount:       domain.MoneyFromCentavos(model.Amount),
		Currency:     model.Currency,
		BalanceAfter: domain.MoneyFromCentavos(model.BalanceAfter),
		Status:       domain.TransactionStatus(model.Status),
		Description:  model.Description,
		Metadata:     metadata,
		ProcessedAt:  model.ProcessedAt,
		ProcessedBy:  model.ProcessedBy,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToGORMTransaction(tx *domain.PoolTransaction) *models.PoolTransactionModel {
	metadata, _ := json.Marshal(tx.Metadata)
	return &models.PoolTransactionModel{
		ID:           tx.ID,
		PaymentID:    tx.PaymentID,
		ContractID:   tx.ContractID,
		UserID:       tx.UserID,
		Type:         string(tx.Type),
		Amount:       tx.Amount.Centavos(),
		Currency:     tx.Currency,
		BalanceAfter: tx.BalanceAfter.Centavos(),
		Status:       string(tx.Status),
		Description:  tx.Description,
		Metadata:     string(metadata),
		ProcessedAt:  tx.ProcessedAt,
		ProcessedBy:  tx.ProcessedBy,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}
