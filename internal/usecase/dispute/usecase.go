package usecase

import (
	"context"

	"github.com/pawlink/pool-service/internal/domain"
	publisher "github.com/pawlink/pool-service/internal/infrastructure/kafka"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	"github.com/pawlink/pool-service/internal/infrastructure/metrics"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
)

const DisputeEventsTopic = "dispute-events"

type DisputeUsecase interface {
	CreateDispute(ctx context.Context, input *disputedto.CreateDisputeInput) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, input *disputedto.ResolveDisputeInput) (*domain.Dispute, error)
	DismissDispute(ctx context.Context, input *disputedto.DismissDisputeInput) (*domain.Dispute, error)
	GetDisputeByID(disputeID string) (*domain.Dispute, error)
	GetActiveContractDispute(contractID string) (*domain.Dispute, error)
	ListDisputes(input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error)
}

type DefaultDisputeUsecase struct {
	disputeRepo  domain.DisputeRepository
	contractRepo domain.ContractRepository
	paymentRepo  domain.PaymentRepository
	txRepo       domain.PoolTransactionRepository
	ledgerUc     ledgeruc.LedgerUsecase

	kafkaPublisher *publisher.KafkaPublisher
	auditLogger    logger.AuditLogger
	Metrics        *metrics.PoolMetrics

	locks *contractLockSet
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	contractRepo domain.ContractRepository,
	paymentRepo domain.PaymentRepository,
	txRepo domain.PoolTransactionRepository,
	ledgerUc ledgeruc.LedgerUsecase,
	kafkaPublisher *publisher.KafkaPublisher,
	auditLogger logger.AuditLogger,
	poolMetrics *metrics.PoolMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo:    disputeRepo,
		contractRepo:   contractRepo,
		paymentRepo:    paymentRepo,
		txRepo:         txRepo,
		ledgerUc:       ledgerUc,
		kafkaPublisher: kafkaPublisher,
		auditLogger:    auditLogger,
		Metrics:        poolMetrics,
		locks:          newContractLockSet(),
	}
}
