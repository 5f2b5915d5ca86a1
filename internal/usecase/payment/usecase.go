package usecase

import (
	"context"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/metrics"
	paymentdto "github.com/pawlink/pool-service/internal/usecase/dto/payment"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
)

const defaultCheckoutTTL = 24 * time.Hour

// WebhookVerifier checks a gateway webhook signature against the raw
// request body.
type WebhookVerifier interface {
	VerifyWebhookSignature(payload []byte, signatureHeader string) error
}

type PaymentUsecase interface {
	CreateCheckout(ctx context.Context, input *paymentdto.CreateCheckoutInput) (*paymentdto.CreateCheckoutOutput, error)
	VerifyPayment(ctx context.Context, paymentID string) (*paymentdto.VerifyPaymentOutput, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	ExpireStalePayments(ctx context.Context) (int, error)
	GetPaymentByID(paymentID string) (*domain.Payment, error)
	GetUserPayments(input *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error)
}

type DefaultPaymentUsecase struct {
	paymentRepo domain.PaymentRepository
	txRepo      domain.PoolTransactionRepository
	gateway     domain.PaymentGateway
	verifier    WebhookVerifier
	ledgerUc    ledgeruc.LedgerUsecase
	Metrics     *metrics.PoolMetrics
	checkoutTTL time.Duration
}

func NewDefaultPaymentUsecase(
	paymentRepo domain.PaymentRepository,
	txRepo domain.PoolTransactionRepository,
	gateway domain.PaymentGateway,
	verifier WebhookVerifier,
	ledgerUc ledgeruc.LedgerUsecase,
	poolMetrics *metrics.PoolMetrics,
) *DefaultPaymentUsecase {
	return &DefaultPaymentUsecase{
		paymentRepo: paymentRepo,
		txRepo:      txRepo,
		gateway:     gateway,
		verifier:    verifier,
		ledgerUc:    ledgerUc,
		Metrics:     poolMetrics,
		checkoutTTL: defaultCheckoutTTL,
	}
}

func (uc *DefaultPaymentUsecase) GetPaymentByID(paymentID string) (*domain.Payment, error) {
	return uc.paymentRepo.GetPaymentByID(paymentID)
}

func (uc *DefaultPaymentUsecase) GetUserPayments(input *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error) {
	payments, total, err := uc.paymentRepo.GetUserPayments(input.UserID, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}
	return &paymentdto.ListPaymentsOutput{Payments: payments, TotalItems: total}, nil
}
