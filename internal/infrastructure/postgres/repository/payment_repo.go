package repository

import (
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/mappers"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

var poolablePaymentTypes = []string{
	string(domain.PaymentCollateral),
	string(domain.PaymentShooterPayment),
	string(domain.PaymentMonetaryCompensation),
	string(domain.PaymentShooterCollateral),
}

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

func (r *DefaultPaymentRepository) CreatePayment(payment *domain.Payment) error {
	model := mappers.ToGORMPayment(payment)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	payment.CreatedAt = model.CreatedAt
	payment.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultPaymentRepository) GetPaymentByID(id string) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) GetPaymentByCheckoutID(checkoutID string) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := r.db.Where("checkout_id = ?", checkoutID).First(&model).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) FindAwaitingCheckout(userID, contractID string, paymentType domain.PaymentType) (*domain.Payment, error) {
	var model models.PaymentModel
	err := r.db.
		Where("user_id = ?", userID).
		Where("contract_id = ?", contractID).
		Where("type = ?", string(paymentType)).
		Where("status IN ?", []string{string(domain.PaymentPending), string(domain.PaymentAwaitingPayment)}).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) MarkPaid(id, gatewayPaymentID string, paidAt time.Time) error {
	updates := map[string]interface{}{
		"status":  string(domain.PaymentPaid),
		"paid_at": paidAt,
	}
	if gatewayPaymentID != "" {
		updates["gateway_payment_id"] = gatewayPaymentID
	}
	return r.db.Model(&models.PaymentModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *DefaultPaymentRepository) UpdatePaymentStatus(id string, status domain.PaymentStatus) error {
	return r.db.Model(&models.PaymentModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *DefaultPaymentRepository) UpdatePoolStatus(id string, poolStatus domain.PoolStatus) error {
	return r.db.Model(&models.PaymentModel{}).
		Where("id = ?", id).
		Update("pool_status", string(poolStatus)).Error
}

func (r *DefaultPaymentRepository) SetGatewayRefundID(id, refundID string) error {
	return r.db.Model(&models.PaymentModel{}).
		Where("id = ?", id).
		Update("gateway_refund_id", refundID).Error
}

func (r *DefaultPaymentRepository) GetContractPayments(contractID string) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.db.
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

func (r *DefaultPaymentRepository) GetPooledPayments(contractID string, userID *string) ([]*domain.Payment, error) {
	query := r.db.
		Where("contract_id = ?", contractID).
		Where("status = ?", string(domain.PaymentPaid)).
		Where("pool_status = ?", string(domain.PoolInPool))
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var paymentModels []models.PaymentModel
	if err := query.Order("created_at ASC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

func (r *DefaultPaymentRepository) GetUserPayments(userID string, page, limit int) ([]*domain.Payment, int64, error) {
	query := r.db.Model(&models.PaymentModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		offset := (page - 1) * limit
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(limit)
	}

	var paymentModels []models.PaymentModel
	if err := query.Order("created_at DESC").Find(&paymentModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainPayments(paymentModels), total, nil
}

func (r *DefaultPaymentRepository) FindExpiredAwaiting(now time.Time) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.db.
		Where("status IN ?", []string{string(domain.PaymentPending), string(domain.PaymentAwaitingPayment)}).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", now).
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

func (r *DefaultPaymentRepository) SumAwaitingDeposits(userID string) (domain.Money, error) {
	return r.sumAwaiting(&userID)
}

func (r *DefaultPaymentRepository) SumAllAwaitingDeposits() (domain.Money, error) {
	return r.sumAwaiting(nil)
}

func (r *DefaultPaymentRepository) sumAwaiting(userID *string) (domain.Money, error) {
	query := r.db.Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type IN ?", poolablePaymentTypes).
		Where("status IN ?", []string{string(domain.PaymentPending), string(domain.PaymentAwaitingPayment)})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Scan(&total).Error; err != nil {
		return domain.Money{}, err
	}
	return domain.MoneyFromCentavos(total), nil
}

func toDomainPayments(paymentModels []models.PaymentModel) []*domain.Payment {
	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments
}
