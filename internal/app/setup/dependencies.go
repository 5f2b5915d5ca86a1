package setup

import (
	"fmt"

	"github.com/pawlink/pool-service/internal/config"
	"github.com/pawlink/pool-service/internal/domain"
	publisher "github.com/pawlink/pool-service/internal/infrastructure/kafka"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	"github.com/pawlink/pool-service/internal/infrastructure/metrics"
	"github.com/pawlink/pool-service/internal/infrastructure/paymongo"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config         *config.PoolConfig
	DB             *gorm.DB
	KafkaPublisher *publisher.KafkaPublisher
	Gateway        *paymongo.Client
	AuditLogger    logger.AuditLogger
	Metrics        *metrics.PoolMetrics
	Repositories   *Repositories
}

type Repositories struct {
	TransactionRepo domain.PoolTransactionRepository
	PaymentRepo     domain.PaymentRepository
	DisputeRepo     domain.DisputeRepository
	ContractRepo    domain.ContractRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	kafkaPublisher := publisher.NewKafkaPublisher(brokers)

	repos := &Repositories{
		TransactionRepo: repository.NewDefaultPoolTransactionRepository(db),
		PaymentRepo:     repository.NewDefaultPaymentRepository(db),
		DisputeRepo:     repository.NewDefaultDisputeRepository(db),
		ContractRepo:    repository.NewDefaultContractRepository(db),
	}

	return &Dependencies{
		Config:         cfg,
		DB:             db,
		KafkaPublisher: kafkaPublisher,
		Gateway:        paymongo.NewClient(cfg.PayMongo),
		AuditLogger:    logger.NewPGAuditLogger(db),
		Metrics:        metrics.NewPoolMetrics(),
		Repositories:   repos,
	}, nil
}
