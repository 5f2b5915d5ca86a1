package background

import (
	"context"
	"log"
	"time"

	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
	paymentuc "github.com/pawlink/pool-service/internal/usecase/payment"
)

type BackgroundTasks struct {
	PaymentUsecase paymentuc.PaymentUsecase
	LedgerUsecase  ledgeruc.LedgerUsecase

	PaymentExpiryInterval time.Duration
	RefundRetryInterval   time.Duration
}

func NewBackgroundTasks(paymentUC paymentuc.PaymentUsecase, ledgerUC ledgeruc.LedgerUsecase, paymentExpiry, refundRetry time.Duration) *BackgroundTasks {
	if paymentExpiry <= 0 {
		paymentExpiry = time.Minute
	}
	if refundRetry <= 0 {
		refundRetry = 5 * time.Minute
	}
	return &BackgroundTasks{
		PaymentUsecase:        paymentUC,
		LedgerUsecase:         ledgerUC,
		PaymentExpiryInterval: paymentExpiry,
		RefundRetryInterval:   refundRetry,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startPaymentExpiry(ctx)
	go bt.startPendingRefundRetry(ctx)
}

func (bt *BackgroundTasks) startPaymentExpiry(ctx context.Context) {
	ticker := time.NewTicker(bt.PaymentExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := bt.PaymentUsecase.ExpireStalePayments(ctx)
			if err != nil {
				log.Printf("payment expiry sweep error: %v\n", err)
				continue
			}
			if expired > 0 {
				log.Printf("expired %d stale payments\n", expired)
			}
		}
	}
}

func (bt *BackgroundTasks) startPendingRefundRetry(ctx context.Context) {
	ticker := time.NewTicker(bt.RefundRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.LedgerUsecase.RetryPendingRefunds(ctx); err != nil {
				log.Printf("pending refund retry error: %v\n", err)
			}
		}
	}
}
