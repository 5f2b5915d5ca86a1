package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/testutil"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	uc           *DefaultLedgerUsecase
	txRepo       *testutil.FakeTransactionRepo
	paymentRepo  *testutil.FakePaymentRepo
	disputeRepo  *testutil.FakeDisputeRepo
	contractRepo *testutil.FakeContractRepo
	gateway      *testutil.FakeGateway
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		txRepo:       testutil.NewFakeTransactionRepo(),
		paymentRepo:  testutil.NewFakePaymentRepo(),
		disputeRepo:  testutil.NewFakeDisputeRepo(),
		contractRepo: testutil.NewFakeContractRepo(),
		gateway:      testutil.NewFakeGateway(),
	}
	f.uc = NewDefaultLedgerUsecase(f.txRepo, f.paymentRepo, f.disputeRepo, f.contractRepo, f.gateway, nil, nil)
	return f
}

func (f *ledgerFixture) mustRecord(t *testing.T, input *ledgerdto.RecordTransactionInput) *domain.PoolTransaction {
	t.Helper()
	tx, err := f.uc.RecordTransaction(context.Background(), input)
	require.NoError(t, err)
	return tx
}

func depositInput(contractID, userID string, centavos int64) *ledgerdto.RecordTransactionInput {
	return &ledgerdto.RecordTransactionInput{
		ContractID:  contractID,
		UserID:      userID,
		Type:        domain.TypeDeposit,
		Amount:      domain.MoneyFromCentavos(centavos),
		Description: "collateral deposit",
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	_, err := f.uc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-1",
		Type:       "chargeback",
		Amount:     domain.MoneyFromCentavos(100),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownTransactionType)

	_, err = f.uc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-1",
		Type:       domain.TypeDeposit,
		Amount:     domain.MoneyFromCentavos(-500),
	})
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)

	_, err = f.uc.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-1",
		Type:       domain.TypeDeposit,
		Amount:     domain.Money{},
	})
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)
}

func TestRecordTransactionCurrencyMismatch(t *testing.T) {
	f := newLedgerFixture()

	f.mustRecord(t, depositInput("contract-1", "user-1", 500000))

	input := depositInput("contract-1", "user-2", 100000)
	input.Currency = "USD"
	_, err := f.uc.RecordTransaction(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestBalanceAfterChain(t *testing.T) {
	f := newLedgerFixture()

	deposit1 := f.mustRecord(t, depositInput("contract-1", "user-1", 500000))
	assert.Equal(t, int64(500000), deposit1.BalanceAfter.Centavos())
	assert.Equal(t, "PHP", deposit1.Currency)
	assert.False(t, deposit1.ProcessedAt.IsZero())

	deposit2 := f.mustRecord(t, depositInput("contract-2", "user-2", 300000))
	assert.Equal(t, int64(800000), deposit2.BalanceAfter.Centavos())

	refund := f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID:  "contract-1",
		UserID:      "user-1",
		Type:        domain.TypeRefund,
		Amount:      domain.MoneyFromCentavos(200000),
		Description: "partial refund",
	})
	assert.Equal(t, int64(600000), refund.BalanceAfter.Centavos())

	// Every settled entry's stamped balance equals the previous one
	// plus its own signed amount, in settlement order.
	transactions, _, err := f.txRepo.ListTransactions(domain.TransactionFilter{})
	require.NoError(t, err)
	byOldest := make([]*domain.PoolTransaction, len(transactions))
	for i, tx := range transactions {
		byOldest[len(transactions)-1-i] = tx
	}
	running := domain.Money{}
	for _, tx := range byOldest {
		running = running.Add(tx.SignedAmount())
		assert.Equal(t, running.Centavos(), tx.BalanceAfter.Centavos(), tx.ID)
	}
}

func TestPendingEntrySkipsBalanceChain(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	f.mustRecord(t, depositInput("contract-1", "user-1", 500000))

	pending := f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID:  "contract-1",
		UserID:      "user-1",
		Type:        domain.TypeRefund,
		Amount:      domain.MoneyFromCentavos(100000),
		Status:      domain.TxStatusPending,
		Description: "refund awaiting gateway",
	})
	assert.True(t, pending.BalanceAfter.IsZero())
	assert.True(t, pending.ProcessedAt.IsZero())

	// Another settled write lands while the refund is still pending.
	f.mustRecord(t, depositInput("contract-2", "user-2", 200000))

	require.NoError(t, f.uc.CompletePendingTransaction(ctx, pending.ID, pending.Metadata))

	completed, err := f.txRepo.GetTransactionByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, completed.Status)
	assert.Equal(t, int64(600000), completed.BalanceAfter.Centavos())

	// Completion is idempotent and chain stays verifiable afterwards.
	require.NoError(t, f.uc.CompletePendingTransaction(ctx, pending.ID, pending.Metadata))
	f.mustRecord(t, depositInput("contract-1", "user-1", 50000))
}

func TestIntegrityViolationHaltsPool(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	deposit := f.mustRecord(t, depositInput("contract-1", "user-1", 500000))

	f.txRepo.TamperBalance(deposit.ID, domain.MoneyFromCentavos(999999))

	_, err := f.uc.RecordTransaction(ctx, depositInput("contract-1", "user-1", 100000))
	assert.ErrorIs(t, err, domain.ErrLedgerIntegrity)

	// The chain spans every contract, so a mismatch observed on one
	// contract refuses writes on all of them until an operator resumes.
	_, err = f.uc.RecordTransaction(ctx, depositInput("contract-1", "user-1", 100000))
	assert.ErrorIs(t, err, domain.ErrPoolHalted)
	_, err = f.uc.RecordTransaction(ctx, depositInput("contract-2", "user-2", 100000))
	assert.ErrorIs(t, err, domain.ErrPoolHalted)

	f.txRepo.TamperBalance(deposit.ID, domain.MoneyFromCentavos(500000))
	f.uc.ResumePool()

	tx := f.mustRecord(t, depositInput("contract-1", "user-1", 100000))
	assert.Equal(t, int64(600000), tx.BalanceAfter.Centavos())
}

func TestRecordTransactionRejectsDuplicateDeposit(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	paymentID := "payment-1"
	first := depositInput("contract-1", "user-1", 500000)
	first.PaymentID = &paymentID
	f.mustRecord(t, first)

	dup := depositInput("contract-1", "user-1", 500000)
	dup.PaymentID = &paymentID
	_, err := f.uc.RecordTransaction(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDepositAlreadyRecorded)

	count, err := f.txRepo.CountTransactions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentDepositsForSamePaymentCreditOnce(t *testing.T) {
	f := newLedgerFixture()
	paymentID := "payment-1"

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			input := depositInput("contract-1", "user-1", 500000)
			input.PaymentID = &paymentID
			_, err := f.uc.RecordTransaction(context.Background(), input)
			errs <- err
		}()
	}

	var recorded, duplicates int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			recorded++
		case errors.Is(err, domain.ErrDepositAlreadyRecorded):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, recorded)
	assert.Equal(t, 1, duplicates)

	count, err := f.txRepo.CountTransactions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAcquirePoolLockHonorsContext(t *testing.T) {
	f := newLedgerFixture()

	// Hold the write lock so the acquire path has to wait.
	f.uc.poolMu <- struct{}{}
	defer func() { <-f.uc.poolMu }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.RecordTransaction(ctx, depositInput("contract-1", "user-1", 100000))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetPoolBalance(t *testing.T) {
	f := newLedgerFixture()

	f.mustRecord(t, depositInput("contract-1", "user-1", 500000))
	f.mustRecord(t, depositInput("contract-2", "user-2", 300000))
	f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-2",
		UserID:     "user-2",
		Type:       domain.TypeRelease,
		Amount:     domain.MoneyFromCentavos(100000),
	})
	f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-2",
		UserID:     "user-2",
		Type:       domain.TypeRefund,
		Amount:     domain.MoneyFromCentavos(50000),
		Status:     domain.TxStatusPending,
	})

	_, err := f.uc.FreezeContractFunds("contract-1")
	require.NoError(t, err)

	balance, err := f.uc.GetPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, int64(700000), balance.TotalHeld.Centavos())
	assert.Equal(t, int64(500000), balance.TotalFrozen.Centavos())
	assert.Equal(t, int64(50000), balance.TotalPending.Centavos())
	assert.Equal(t, int64(100000), balance.TotalReleased.Centavos())
	assert.Equal(t, int64(200000), balance.Available.Centavos())
}

func TestGetContractPoolSummary(t *testing.T) {
	f := newLedgerFixture()

	f.mustRecord(t, depositInput("contract-1", "user-1", 500000))
	f.mustRecord(t, depositInput("contract-1", "user-2", 300000))
	f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-2",
		Type:       domain.TypeFeeDeduction,
		Amount:     domain.MoneyFromCentavos(75000),
	})
	// Pending entries stay out of every settled total.
	f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-1",
		Type:       domain.TypeRefund,
		Amount:     domain.MoneyFromCentavos(400000),
		Status:     domain.TxStatusPending,
	})
	// Another contract's entries never leak into the summary.
	f.mustRecord(t, depositInput("contract-2", "user-3", 999900))

	summary, err := f.uc.GetContractPoolSummary("contract-1")
	require.NoError(t, err)
	assert.Equal(t, int64(800000), summary.TotalDeposited.Centavos())
	assert.Equal(t, int64(75000), summary.TotalFees.Centavos())
	assert.Equal(t, int64(725000), summary.NetBalance.Centavos())
	assert.True(t, summary.TotalRefunded.IsZero())
	assert.True(t, summary.FrozenAmount.IsZero())
	assert.Zero(t, summary.FrozenCount)
	assert.False(t, summary.HasDispute)
	assert.Len(t, summary.Transactions, 4)
}

func TestFreezeAndUnfreezeContractFunds(t *testing.T) {
	f := newLedgerFixture()

	f.mustRecord(t, depositInput("contract-1", "user-1", 500000))
	f.mustRecord(t, depositInput("contract-1", "user-2", 300000))

	payment := &domain.Payment{
		ID:         "payment-1",
		UserID:     "user-1",
		ContractID: "contract-1",
		Type:       domain.PaymentCollateral,
		Amount:     domain.MoneyFromCentavos(500000),
		Currency:   "PHP",
		Status:     domain.PaymentPaid,
		PoolStatus: domain.PoolInPool,
	}
	require.NoError(t, f.paymentRepo.CreatePayment(payment))

	affected, err := f.uc.FreezeContractFunds("contract-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	frozen, err := f.paymentRepo.GetPaymentByID("payment-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolFrozen, frozen.PoolStatus)

	summary, err := f.uc.GetContractPoolSummary("contract-1")
	require.NoError(t, err)
	assert.Equal(t, int64(800000), summary.FrozenAmount.Centavos())
	assert.Equal(t, 2, summary.FrozenCount)
	// Frozen funds remain part of the held balance.
	assert.Equal(t, int64(800000), summary.NetBalance.Centavos())

	affected, err = f.uc.UnfreezeContractFunds("contract-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	thawed, err := f.paymentRepo.GetPaymentByID("payment-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolInPool, thawed.PoolStatus)

	balance, err := f.uc.GetPoolBalance()
	require.NoError(t, err)
	assert.True(t, balance.TotalFrozen.IsZero())
	assert.Equal(t, int64(800000), balance.Available.Centavos())
}

func TestReleaseCollateralOnlyTouchesCollateralTypes(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	seedPooled := func(id, userID string, paymentType domain.PaymentType, centavos int64) {
		require.NoError(t, f.paymentRepo.CreatePayment(&domain.Payment{
			ID:         id,
			UserID:     userID,
			ContractID: "contract-1",
			Type:       paymentType,
			Amount:     domain.MoneyFromCentavos(centavos),
			Currency:   "PHP",
			Status:     domain.PaymentPaid,
			PoolStatus: domain.PoolInPool,
		}))
		input := depositInput("contract-1", userID, centavos)
		input.PaymentID = &id
		f.mustRecord(t, input)
	}
	seedPooled("payment-1", "user-1", domain.PaymentCollateral, 500000)
	seedPooled("payment-2", "user-2", domain.PaymentShooterPayment, 300000)

	require.NoError(t, f.uc.ReleaseCollateral(ctx, "contract-1", "system"))

	released, err := f.paymentRepo.GetPaymentByID("payment-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolReleased, released.PoolStatus)

	untouched, err := f.paymentRepo.GetPaymentByID("payment-2")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolInPool, untouched.PoolStatus)

	summary, err := f.uc.GetContractPoolSummary("contract-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), summary.TotalReleased.Centavos())
	assert.Equal(t, int64(300000), summary.NetBalance.Centavos())
}

func TestHandleCancellationDeductsFeeFromCancellingParty(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	f.contractRepo.Add(&domain.Contract{
		ID:                     "contract-1",
		Status:                 domain.ContractAccepted,
		OwnerUserID:            "owner-1",
		CounterpartyUserID:     "stud-owner-1",
		CancellationFeePercent: 15,
	})

	seedPooled := func(id, userID string, centavos int64) {
		require.NoError(t, f.paymentRepo.CreatePayment(&domain.Payment{
			ID:               id,
			UserID:           userID,
			ContractID:       "contract-1",
			Type:             domain.PaymentCollateral,
			Amount:           domain.MoneyFromCentavos(centavos),
			Currency:         "PHP",
			GatewayPaymentID: "pay_" + id,
			Status:           domain.PaymentPaid,
			PoolStatus:       domain.PoolInPool,
		}))
		input := depositInput("contract-1", userID, centavos)
		input.PaymentID = &id
		f.mustRecord(t, input)
	}
	seedPooled("payment-1", "owner-1", 500000)
	seedPooled("payment-2", "stud-owner-1", 300000)

	require.NoError(t, f.uc.HandleCancellation(ctx, "contract-1", "owner-1"))

	feeType := domain.TypeFeeDeduction
	fees, _, err := f.txRepo.ListTransactions(domain.TransactionFilter{Type: &feeType})
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, "owner-1", fees[0].UserID)
	assert.Equal(t, int64(75000), fees[0].Amount.Centavos())

	refundType := domain.TypeRefund
	refunds, _, err := f.txRepo.ListTransactions(domain.TransactionFilter{Type: &refundType})
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	amounts := map[string]int64{}
	for _, tx := range refunds {
		amounts[tx.UserID] = tx.Amount.Centavos()
	}
	assert.Equal(t, int64(425000), amounts["owner-1"])
	assert.Equal(t, int64(300000), amounts["stud-owner-1"])

	summary, err := f.uc.GetContractPoolSummary("contract-1")
	require.NoError(t, err)
	assert.True(t, summary.NetBalance.IsZero())

	cancelled, err := f.paymentRepo.GetPaymentByID("payment-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolPartiallyRefunded, cancelled.PoolStatus)

	other, err := f.paymentRepo.GetPaymentByID("payment-2")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolRefunded, other.PoolStatus)
}

func TestRefundPooledPaymentGatewayFailureLeavesPendingEntry(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	f.gateway.FailRefunds = true

	payment := &domain.Payment{
		ID:               "payment-1",
		UserID:           "user-1",
		ContractID:       "contract-1",
		Type:             domain.PaymentCollateral,
		Amount:           domain.MoneyFromCentavos(500000),
		Currency:         "PHP",
		GatewayPaymentID: "pay_abc",
		Status:           domain.PaymentPaid,
		PoolStatus:       domain.PoolInPool,
	}
	require.NoError(t, f.paymentRepo.CreatePayment(payment))
	input := depositInput("contract-1", "user-1", 500000)
	input.PaymentID = &payment.ID
	f.mustRecord(t, input)

	tx, err := f.uc.RefundPooledPayment(ctx, payment, payment.Amount, "admin refund", "admin-1", domain.TransactionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, tx.Status)
	assert.Equal(t, "gateway timeout", tx.Metadata.GatewayError)
	assert.True(t, tx.BalanceAfter.IsZero())

	// The gateway recovers and the sweep settles the pending entry.
	f.gateway.FailRefunds = false
	require.NoError(t, f.uc.RetryPendingRefunds(ctx))

	completed, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, completed.Status)
	assert.True(t, completed.BalanceAfter.IsZero())
	assert.Empty(t, completed.Metadata.GatewayError)
	assert.NotEmpty(t, completed.Metadata.GatewayRefundID)

	refunded, err := f.paymentRepo.GetPaymentByID("payment-1")
	require.NoError(t, err)
	assert.Equal(t, completed.Metadata.GatewayRefundID, refunded.GatewayRefundID)

	pending, err := f.txRepo.FindPendingRefunds()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRetryPendingRefundsSkipsEntriesStillFailing(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	f.gateway.FailRefunds = true

	payment := &domain.Payment{
		ID:               "payment-1",
		UserID:           "user-1",
		ContractID:       "contract-1",
		Type:             domain.PaymentCollateral,
		Amount:           domain.MoneyFromCentavos(200000),
		Currency:         "PHP",
		GatewayPaymentID: "pay_abc",
		Status:           domain.PaymentPaid,
		PoolStatus:       domain.PoolInPool,
	}
	require.NoError(t, f.paymentRepo.CreatePayment(payment))
	input := depositInput("contract-1", "user-1", 200000)
	input.PaymentID = &payment.ID
	f.mustRecord(t, input)

	tx, err := f.uc.RefundPooledPayment(ctx, payment, payment.Amount, "admin refund", "admin-1", domain.TransactionMetadata{})
	require.NoError(t, err)

	require.NoError(t, f.uc.RetryPendingRefunds(ctx))

	still, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, still.Status)
}

func TestGetRevenueByType(t *testing.T) {
	f := newLedgerFixture()

	collateral := depositInput("contract-1", "user-1", 500000)
	collateral.Metadata.PaymentType = string(domain.PaymentCollateral)
	f.mustRecord(t, collateral)

	moreCollateral := depositInput("contract-2", "user-2", 300000)
	moreCollateral.Metadata.PaymentType = string(domain.PaymentCollateral)
	f.mustRecord(t, moreCollateral)

	shooter := depositInput("contract-1", "user-3", 200000)
	shooter.Metadata.PaymentType = string(domain.PaymentShooterPayment)
	f.mustRecord(t, shooter)

	revenue, err := f.uc.GetRevenueByType()
	require.NoError(t, err)
	assert.Equal(t, int64(800000), revenue[string(domain.PaymentCollateral)].Centavos())
	assert.Equal(t, int64(200000), revenue[string(domain.PaymentShooterPayment)].Centavos())
}

func TestGetPoolStatistics(t *testing.T) {
	f := newLedgerFixture()

	f.mustRecord(t, depositInput("contract-1", "user-1", 500000))
	f.mustRecord(t, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-1",
		Type:       domain.TypeFeeDeduction,
		Amount:     domain.MoneyFromCentavos(75000),
	})

	stats, err := f.uc.GetPoolStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(425000), stats.Balance.TotalHeld.Centavos())
	assert.Equal(t, int64(2), stats.TransactionCount)
	assert.Zero(t, stats.ActiveDisputes)
	assert.Equal(t, int64(75000), stats.RevenueFees.Centavos())
}
