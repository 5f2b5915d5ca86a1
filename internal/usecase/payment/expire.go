package usecase

import (
	"context"
	"log"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
)

// ExpireStalePayments flips awaiting payments past their deadline to
// expired. Nothing was committed to the ledger for them, so there is
// nothing to roll back.
func (uc *DefaultPaymentUsecase) ExpireStalePayments(ctx context.Context) (int, error) {
	stale, err := uc.paymentRepo.FindExpiredAwaiting(time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, payment := range stale {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		if err := uc.paymentRepo.UpdatePaymentStatus(payment.ID, domain.PaymentExpired); err != nil {
			log.Printf("failed to expire payment %s: %v", payment.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}
