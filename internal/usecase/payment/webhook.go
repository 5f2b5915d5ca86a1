package usecase

import (
	"context"
	"log/slog"

	"github.com/pawlink/pool-service/internal/infrastructure/paymongo"
)

// HandleWebhook verifies the gateway signature and drives the same
// idempotent verification path a client-initiated verify would take.
func (uc *DefaultPaymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := uc.verifier.VerifyWebhookSignature(payload, signatureHeader); err != nil {
		return err
	}

	event, err := paymongo.ParseWebhookEvent(payload)
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout_session.payment.paid":
		if event.CheckoutID == "" {
			slog.Warn("webhook paid event without checkout id")
			return nil
		}
		payment, err := uc.paymentRepo.GetPaymentByCheckoutID(event.CheckoutID)
		if err != nil {
			return err
		}
		_, err = uc.VerifyPayment(ctx, payment.ID)
		return err
	default:
		slog.Info("ignoring webhook event", "type", event.Type)
		return nil
	}
}
