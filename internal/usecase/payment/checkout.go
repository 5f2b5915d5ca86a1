package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawlink/pool-service/internal/domain"
	paymentdto "github.com/pawlink/pool-service/internal/usecase/dto/payment"
)

// CreateCheckout opens a gateway checkout session for a pool payment.
// An unexpired awaiting checkout for the same user, contract and type
// is reused instead of opening a second session.
func (uc *DefaultPaymentUsecase) CreateCheckout(ctx context.Context, input *paymentdto.CreateCheckoutInput) (*paymentdto.CreateCheckoutOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	probe := domain.Payment{Type: input.Type}
	if !probe.IsPoolable() {
		return nil, domain.ErrPaymentNotPoolable
	}

	currency := input.Currency
	if currency == "" {
		currency = "PHP"
	}

	existing, err := uc.paymentRepo.FindAwaitingCheckout(input.UserID, input.ContractID, input.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.CheckoutURL != "" &&
		(existing.ExpiresAt == nil || existing.ExpiresAt.After(time.Now())) {
		return &paymentdto.CreateCheckoutOutput{
			PaymentID:   existing.ID,
			CheckoutURL: existing.CheckoutURL,
			ExpiresAt:   existing.ExpiresAt,
		}, nil
	}

	paymentID := uuid.New().String()
	started := time.Now()
	session, err := uc.gateway.CreateCheckout(ctx, domain.CheckoutInput{
		Amount:      input.Amount,
		Currency:    currency,
		Name:        checkoutLineItemName(input.Type),
		Description: input.Description,
		SuccessURL:  input.SuccessURL,
		CancelURL:   input.CancelURL,
		Reference:   paymentID,
	})
	if uc.Metrics != nil {
		uc.Metrics.RecordGatewayCall("create_checkout", time.Since(started).Seconds(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}

	expiresAt := session.ExpiresAt
	if expiresAt == nil {
		fallback := time.Now().Add(uc.checkoutTTL)
		expiresAt = &fallback
	}

	payment := &domain.Payment{
		ID:          paymentID,
		UserID:      input.UserID,
		ContractID:  input.ContractID,
		Type:        input.Type,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		CheckoutID:  session.CheckoutID,
		CheckoutURL: session.CheckoutURL,
		Status:      domain.PaymentAwaitingPayment,
		PoolStatus:  domain.PoolNotPooled,
		ExpiresAt:   expiresAt,
	}
	if err := uc.paymentRepo.CreatePayment(payment); err != nil {
		return nil, err
	}

	return &paymentdto.CreateCheckoutOutput{
		PaymentID:   payment.ID,
		CheckoutURL: payment.CheckoutURL,
		ExpiresAt:   payment.ExpiresAt,
	}, nil
}

func checkoutLineItemName(paymentType domain.PaymentType) string {
	switch paymentType {
	case domain.PaymentCollateral:
		return "Breeding contract collateral"
	case domain.PaymentShooterPayment:
		return "Shooter service payment"
	case domain.PaymentMonetaryCompensation:
		return "Monetary compensation"
	case domain.PaymentShooterCollateral:
		return "Shooter collateral"
	}
	return "Pool payment"
}
