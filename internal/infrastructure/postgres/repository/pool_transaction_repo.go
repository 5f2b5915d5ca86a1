package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/mappers"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPoolTransactionRepository struct {
	db *gorm.DB
}

func NewDefaultPoolTransactionRepository(db *gorm.DB) *DefaultPoolTransactionRepository {
	return &DefaultPoolTransactionRepository{db: db}
}

func (r *DefaultPoolTransactionRepository) CreateTransaction(tx *domain.PoolTransaction) error {
	model := mappers.ToGORMTransaction(tx)
	if err := r.db.Create(model).Error; err != nil {
		// The partial unique index on (payment_id) for deposits backs
		// the usecase-level dedup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDepositAlreadyRecorded
		}
		return err
	}
	tx.CreatedAt = model.CreatedAt
	tx.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultPoolTransactionRepository) GetTransactionByID(id string) (*domain.PoolTransaction, error) {
	var model models.PoolTransactionModel
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

// GetLastSettledTransaction returns the most recently settled entry.
// Ordered by processed_at: a pending entry completed late settles after
// entries created after it.
func (r *DefaultPoolTransactionRepository) GetLastSettledTransaction() (*domain.PoolTransaction, error) {
	var model models.PoolTransactionModel
	err := r.db.
		Where("status IN ?", []string{string(domain.TxStatusCompleted), string(domain.TxStatusFrozen)}).
		Order("processed_at DESC").
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultPoolTransactionRepository) UpdateTransactionStatus(id string, status domain.TransactionStatus) error {
	return r.db.Model(&models.PoolTransactionModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *DefaultPoolTransactionRepository) CompleteTransaction(id string, balanceAfter domain.Money, metadata domain.TransactionMetadata) error {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return r.db.Model(&models.PoolTransactionModel{}).
		Where("id = ?", id).
		Where("status = ?", string(domain.TxStatusPending)).
		Updates(map[string]interface{}{
			"status":        string(domain.TxStatusCompleted),
			"balance_after": balanceAfter.Centavos(),
			"metadata":      string(encoded),
			"processed_at":  time.Now(),
		}).Error
}

func (r *DefaultPoolTransactionRepository) GetContractTransactions(contractID string) ([]*domain.PoolTransaction, error) {
	var txModels []models.PoolTransactionModel
	err := r.db.
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}
	transactions := make([]*domain.PoolTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = mappers.ToDomainTransaction(&txModels[i])
	}
	return transactions, nil
}

func (r *DefaultPoolTransactionRepository) ListTransactions(filter domain.TransactionFilter) ([]*domain.PoolTransaction, int64, error) {
	query := r.db.Model(&models.PoolTransactionModel{})

	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var txModels []models.PoolTransactionModel
	if err := query.Order("created_at DESC").Find(&txModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find pool transactions: %w", err)
	}

	transactions := make([]*domain.PoolTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = mappers.ToDomainTransaction(&txModels[i])
	}
	return transactions, total, nil
}

func (r *DefaultPoolTransactionRepository) SumSignedAmounts(contractID *string, statuses []domain.TransactionStatus) (domain.Money, error) {
	query := r.db.Model(&models.PoolTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", string(domain.TypeDeposit))
	if contractID != nil {
		query = query.Where("contract_id = ?", *contractID)
	}
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}
	query = query.Where("status IN ?", statusStrings)

	var total int64
	if err := query.Scan(&total).Error; err != nil {
		return domain.Money{}, err
	}
	return domain.MoneyFromCentavos(total), nil
}

func (r *DefaultPoolTransactionRepository) SumAmountsByStatus(contractID *string, status domain.TransactionStatus) (domain.Money, error) {
	query := r.db.Model(&models.PoolTransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", string(status))
	if contractID != nil {
		query = query.Where("contract_id = ?", *contractID)
	}

	var total int64
	if err := query.Scan(&total).Error; err != nil {
		return domain.Money{}, err
	}
	return domain.MoneyFromCentavos(total), nil
}

func (r *DefaultPoolTransactionRepository) SumAmountsByType(txType domain.TransactionType, statuses []domain.TransactionStatus) (domain.Money, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	var total int64
	err := r.db.Model(&models.PoolTransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ?", string(txType)).
		Where("status IN ?", statusStrings).
		Scan(&total).Error
	if err != nil {
		return domain.Money{}, err
	}
	return domain.MoneyFromCentavos(total), nil
}

func (r *DefaultPoolTransactionRepository) SumDepositsByPaymentType() (map[string]domain.Money, error) {
	var rows []struct {
		PaymentType string
		Total       int64
	}
	err := r.db.Model(&models.PoolTransactionModel{}).
		Select("COALESCE(metadata->>'payment_type', '') AS payment_type, COALESCE(SUM(amount), 0) AS total").
		Where("type = ?", string(domain.TypeDeposit)).
		Where("status = ?", string(domain.TxStatusCompleted)).
		Group("payment_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]domain.Money, len(rows))
	for _, row := range rows {
		revenue[row.PaymentType] = domain.MoneyFromCentavos(row.Total)
	}
	return revenue, nil
}

func (r *DefaultPoolTransactionRepository) CountTransactions() (int64, error) {
	var count int64
	err := r.db.Model(&models.PoolTransactionModel{}).Count(&count).Error
	return count, err
}

func (r *DefaultPoolTransactionRepository) GetMonthlyFlow(year int) ([]*domain.MonthlyPoolFlow, error) {
	var rows []struct {
		Month int
		Type  string
		Total int64
	}
	err := r.db.Model(&models.PoolTransactionModel{}).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, type, COALESCE(SUM(amount), 0) AS total").
		Where("status IN ?", []string{string(domain.TxStatusCompleted), string(domain.TxStatusFrozen)}).
		Where("EXTRACT(YEAR FROM created_at) = ?", year).
		Group("month, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	flows := make([]*domain.MonthlyPoolFlow, 12)
	for i := range flows {
		flows[i] = &domain.MonthlyPoolFlow{Year: year, Month: i + 1}
	}
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		flow := flows[row.Month-1]
		amount := domain.MoneyFromCentavos(row.Total)
		switch domain.TransactionType(row.Type) {
		case domain.TypeDeposit:
			flow.Deposits = amount
		case domain.TypeRelease:
			flow.Releases = amount
		case domain.TypeRefund:
			flow.Refunds = amount
		case domain.TypeFeeDeduction:
			flow.Fees = amount
		}
	}
	return flows, nil
}

func (r *DefaultPoolTransactionRepository) HasDepositForPayment(paymentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PoolTransactionModel{}).
		Where("payment_id = ?", paymentID).
		Where("type = ?", string(domain.TypeDeposit)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultPoolTransactionRepository) FreezeContractTransactions(contractID string) (int64, error) {
	result := r.db.Model(&models.PoolTransactionModel{}).
		Where("contract_id = ?", contractID).
		Where("status = ?", string(domain.TxStatusCompleted)).
		Update("status", string(domain.TxStatusFrozen))
	return result.RowsAffected, result.Error
}

func (r *DefaultPoolTransactionRepository) UnfreezeContractTransactions(contractID string) (int64, error) {
	result := r.db.Model(&models.PoolTransactionModel{}).
		Where("contract_id = ?", contractID).
		Where("status = ?", string(domain.TxStatusFrozen)).
		Update("status", string(domain.TxStatusCompleted))
	return result.RowsAffected, result.Error
}

func (r *DefaultPoolTransactionRepository) FindPendingRefunds() ([]*domain.PoolTransaction, error) {
	var txModels []models.PoolTransactionModel
	err := r.db.
		Where("status = ?", string(domain.TxStatusPending)).
		Where("type = ?", string(domain.TypeRefund)).
		Order("created_at ASC").
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}
	transactions := make([]*domain.PoolTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = mappers.ToDomainTransaction(&txModels[i])
	}
	return transactions, nil
}
