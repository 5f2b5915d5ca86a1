package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	publisher "github.com/pawlink/pool-service/internal/infrastructure/kafka"
	"github.com/pawlink/pool-service/internal/infrastructure/metrics"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
)

const (
	poolLockTimeout  = 2 * time.Second
	poolLockAttempts = 3

	PoolEventsTopic = "pool-events"
)

type LedgerUsecase interface {
	RecordTransaction(ctx context.Context, input *ledgerdto.RecordTransactionInput) (*domain.PoolTransaction, error)
	CompletePendingTransaction(ctx context.Context, transactionID string, metadata domain.TransactionMetadata) error
	GetPoolBalance() (*domain.PoolBalance, error)
	GetContractPoolSummary(contractID string) (*domain.ContractPoolSummary, error)
	GetTransactionByID(transactionID string) (*domain.PoolTransaction, error)
	ListTransactions(input *ledgerdto.ListTransactionsInput) (*ledgerdto.ListTransactionsOutput, error)
	GetPoolStatistics() (*domain.PoolStatistics, error)
	GetMonthlyFlow(year int) ([]*domain.MonthlyPoolFlow, error)
	GetRevenueByType() (map[string]domain.Money, error)
	FreezeContractFunds(contractID string) (int64, error)
	UnfreezeContractFunds(contractID string) (int64, error)
	ReleaseCollateral(ctx context.Context, contractID, processedBy string) error
	ReleaseShooterPayment(ctx context.Context, contractID, processedBy string) error
	HandleCancellation(ctx context.Context, contractID, cancelledBy string) error
	RetryPendingRefunds(ctx context.Context) error
	RefundPooledPayment(ctx context.Context, payment *domain.Payment, amount domain.Money, reason, processedBy string, metadata domain.TransactionMetadata) (*domain.PoolTransaction, error)
	ResumePool()
}

type DefaultLedgerUsecase struct {
	txRepo       domain.PoolTransactionRepository
	paymentRepo  domain.PaymentRepository
	disputeRepo  domain.DisputeRepository
	contractRepo domain.ContractRepository
	gateway      domain.PaymentGateway

	kafkaPublisher *publisher.KafkaPublisher
	Metrics        *metrics.PoolMetrics

	// poolMu serializes the balance-read + append critical section.
	poolMu chan struct{}
	// halted refuses all ledger writes after an integrity violation,
	// until an operator resumes. The balance chain spans every
	// contract, so a mismatch cannot be pinned to a single one.
	halted atomic.Bool
}

func NewDefaultLedgerUsecase(
	txRepo domain.PoolTransactionRepository,
	paymentRepo domain.PaymentRepository,
	disputeRepo domain.DisputeRepository,
	contractRepo domain.ContractRepository,
	gateway domain.PaymentGateway,
	kafkaPublisher *publisher.KafkaPublisher,
	poolMetrics *metrics.PoolMetrics,
) *DefaultLedgerUsecase {
	return &DefaultLedgerUsecase{
		txRepo:         txRepo,
		paymentRepo:    paymentRepo,
		disputeRepo:    disputeRepo,
		contractRepo:   contractRepo,
		gateway:        gateway,
		kafkaPublisher: kafkaPublisher,
		Metrics:        poolMetrics,
		poolMu:         make(chan struct{}, 1),
	}
}

// acquirePoolLock takes the pool write lock with a bounded wait per
// attempt. Callers must releasePoolLock on success.
func (uc *DefaultLedgerUsecase) acquirePoolLock(ctx context.Context, operation string) error {
	for attempt := 0; attempt < poolLockAttempts; attempt++ {
		timer := time.NewTimer(poolLockTimeout)
		select {
		case uc.poolMu <- struct{}{}:
			timer.Stop()
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordLedgerContention(operation)
	}
	return domain.ErrLedgerContention
}

func (uc *DefaultLedgerUsecase) releasePoolLock() {
	<-uc.poolMu
}

func (uc *DefaultLedgerUsecase) isHalted() bool {
	return uc.halted.Load()
}

// haltPool stops all ledger writes. contractID labels the write that
// observed the mismatch, not necessarily the corrupt entry's owner.
func (uc *DefaultLedgerUsecase) haltPool(contractID string) {
	uc.halted.Store(true)
	if uc.Metrics != nil {
		uc.Metrics.RecordIntegrityFailure(contractID)
	}
}

// ResumePool lifts an integrity halt after operator review.
func (uc *DefaultLedgerUsecase) ResumePool() {
	uc.halted.Store(false)
}
