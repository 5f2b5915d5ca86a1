package setup

import (
	adminuc "github.com/pawlink/pool-service/internal/usecase/admin"
	disputeuc "github.com/pawlink/pool-service/internal/usecase/dispute"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
	paymentuc "github.com/pawlink/pool-service/internal/usecase/payment"
)

type Usecases struct {
	Ledger  ledgeruc.LedgerUsecase
	Payment paymentuc.PaymentUsecase
	Dispute disputeuc.DisputeUsecase
	Admin   adminuc.AdminUsecase
}

func InitializeUsecases(deps *Dependencies) *Usecases {
	repos := deps.Repositories

	ledgerUsecase := ledgeruc.NewDefaultLedgerUsecase(
		repos.TransactionRepo,
		repos.PaymentRepo,
		repos.DisputeRepo,
		repos.ContractRepo,
		deps.Gateway,
		deps.KafkaPublisher,
		deps.Metrics,
	)

	paymentUsecase := paymentuc.NewDefaultPaymentUsecase(
		repos.PaymentRepo,
		repos.TransactionRepo,
		deps.Gateway,
		deps.Gateway,
		ledgerUsecase,
		deps.Metrics,
	)

	disputeUsecase := disputeuc.NewDefaultDisputeUsecase(
		repos.DisputeRepo,
		repos.ContractRepo,
		repos.PaymentRepo,
		repos.TransactionRepo,
		ledgerUsecase,
		deps.KafkaPublisher,
		deps.AuditLogger,
		deps.Metrics,
	)

	adminUsecase := adminuc.NewDefaultAdminUsecase(
		repos.TransactionRepo,
		repos.PaymentRepo,
		ledgerUsecase,
		deps.AuditLogger,
		deps.Metrics,
	)

	return &Usecases{
		Ledger:  ledgerUsecase,
		Payment: paymentUsecase,
		Dispute: disputeUsecase,
		Admin:   adminUsecase,
	}
}
