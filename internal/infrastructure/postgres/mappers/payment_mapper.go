package mappers

import (
	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:               model.ID,
		UserID:           model.UserID,
		ContractID:       model.ContractID,
		Type:             domain.PaymentType(model.Type),
		Amount:           domain.MoneyFromCentavos(model.Amount),
		Currency:         model.Currency,
		Description:      model.Description,
		CheckoutID:       model.CheckoutID,
		CheckoutURL:      model.CheckoutURL,
		GatewayPaymentID: model.GatewayPaymentID,
		GatewayRefundID:  model.GatewayRefundID,
		Status:           domain.PaymentStatus(model.Status),
		PoolStatus:       domain.PoolStatus(model.PoolStatus),
		PaidAt:           model.PaidAt,
		ExpiresAt:        model.ExpiresAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               payment.ID,
		UserID:           payment.UserID,
		ContractID:       payment.ContractID,
		Type:             string(payment.Type),
		Amount:           payment.Amount.Centavos(),
		Currency:         payment.Currency,
		Description:      payment.Description,
		CheckoutID:       payment.CheckoutID,
		CheckoutURL:      payment.CheckoutURL,
		GatewayPaymentID: payment.GatewayPaymentID,
		GatewayRefundID:  payment.GatewayRefundID,
		Status:           string(payment.Status),
		PoolStatus:       string(payment.PoolStatus),
		PaidAt:           payment.PaidAt,
		ExpiresAt:        payment.ExpiresAt,
		CreatedAt:        payment.CreatedAt,
		UpdatedAt:        payment.UpdatedAt,
	}
}
