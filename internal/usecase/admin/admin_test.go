package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/testutil"
	admindto "github.com/pawlink/pool-service/internal/usecase/dto/admin"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type adminFixture struct {
	uc          *DefaultAdminUsecase
	ledger      *ledgeruc.DefaultLedgerUsecase
	txRepo      *testutil.FakeTransactionRepo
	paymentRepo *testutil.FakePaymentRepo
	gateway     *testutil.FakeGateway
	audit       *testutil.FakeAuditLogger
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		txRepo:      testutil.NewFakeTransactionRepo(),
		paymentRepo: testutil.NewFakePaymentRepo(),
		gateway:     testutil.NewFakeGateway(),
		audit:       testutil.NewFakeAuditLogger(),
	}
	f.ledger = ledgeruc.NewDefaultLedgerUsecase(
		f.txRepo, f.paymentRepo, testutil.NewFakeDisputeRepo(), testutil.NewFakeContractRepo(), f.gateway, nil, nil)
	f.uc = NewDefaultAdminUsecase(f.txRepo, f.paymentRepo, f.ledger, f.audit, nil)
	return f
}

func (f *adminFixture) seedDeposit(t *testing.T, paymentID *string, centavos int64) *domain.PoolTransaction {
	t.Helper()
	tx, err := f.ledger.RecordTransaction(context.Background(), &ledgerdto.RecordTransactionInput{
		PaymentID:   paymentID,
		ContractID:  "contract-1",
		UserID:      "user-1",
		Type:        domain.TypeDeposit,
		Amount:      domain.MoneyFromCentavos(centavos),
		Description: "collateral deposit",
	})
	require.NoError(t, err)
	return tx
}

func TestFreezeAndUnfreezeTransaction(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	deposit := f.seedDeposit(t, nil, 500000)

	frozen, err := f.uc.FreezeTransaction(ctx, &admindto.FreezeTransactionInput{
		TransactionID: deposit.ID, AdminID: "admin-1", Reason: "chargeback review",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusFrozen, frozen.Status)

	// A second freeze is rejected.
	_, err = f.uc.FreezeTransaction(ctx, &admindto.FreezeTransactionInput{
		TransactionID: deposit.ID, AdminID: "admin-1",
	})
	assert.ErrorIs(t, err, domain.ErrTransactionFrozen)

	balance, err := f.ledger.GetPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, int64(500000), balance.TotalFrozen.Centavos())
	assert.True(t, balance.Available.IsZero())

	thawed, err := f.uc.UnfreezeTransaction(ctx, &admindto.FreezeTransactionInput{
		TransactionID: deposit.ID, AdminID: "admin-1", Reason: "review cleared",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, thawed.Status)

	_, err = f.uc.UnfreezeTransaction(ctx, &admindto.FreezeTransactionInput{
		TransactionID: deposit.ID, AdminID: "admin-1",
	})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFrozen)

	require.Len(t, f.audit.AdminActions, 2)
	assert.Equal(t, "freeze_transaction", f.audit.AdminActions[0].Action)
	assert.Equal(t, "unfreeze_transaction", f.audit.AdminActions[1].Action)
}

func TestFreezeTransactionRejectsPendingEntry(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.seedDeposit(t, nil, 500000)

	pending, err := f.ledger.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		ContractID:  "contract-1",
		UserID:      "user-1",
		Type:        domain.TypeRefund,
		Amount:      domain.MoneyFromCentavos(200000),
		Status:      domain.TxStatusPending,
		Description: "refund awaiting gateway",
	})
	require.NoError(t, err)

	_, err = f.uc.FreezeTransaction(ctx, &admindto.FreezeTransactionInput{
		TransactionID: pending.ID, AdminID: "admin-1", Reason: "chargeback review",
	})
	assert.ErrorIs(t, err, domain.ErrTransactionNotSettled)

	tx, err := f.txRepo.GetTransactionByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, tx.Status)
	assert.Equal(t, "chargeback review", f.audit.AdminActions[0].Reason)
}

func TestForceReleaseRequiresDeposit(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.seedDeposit(t, nil, 500000)
	release, err := f.ledger.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		ContractID: "contract-1",
		UserID:     "user-1",
		Type:       domain.TypeRelease,
		Amount:     domain.MoneyFromCentavos(100000),
	})
	require.NoError(t, err)

	_, err = f.uc.ForceRelease(ctx, &admindto.ForceReleaseInput{
		TransactionID: release.ID, AdminID: "admin-1",
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestForceReleaseWithGatewayFailureLeavesPendingRefund(t *testing.T) {
	f := newAdminFixture()
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
	deposit := f.seedDeposit(t, &payment.ID, 500000)

	refund, err := f.uc.ForceRelease(ctx, &admindto.ForceReleaseInput{
		TransactionID: deposit.ID, AdminID: "admin-1", Reason: "contract fell through",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeRefund, refund.Type)
	assert.Equal(t, domain.TxStatusPending, refund.Status)
	assert.Equal(t, "gateway timeout", refund.Metadata.GatewayError)
	assert.Equal(t, "admin-1", refund.Metadata.AdminID)

	require.Len(t, f.audit.AdminActions, 1)
	assert.Equal(t, "force_release", f.audit.AdminActions[0].Action)
}

func TestForceReleaseFrozenDeposit(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	deposit := f.seedDeposit(t, nil, 500000)

	_, err := f.uc.FreezeTransaction(ctx, &admindto.FreezeTransactionInput{
		TransactionID: deposit.ID, AdminID: "admin-1",
	})
	require.NoError(t, err)

	refund, err := f.uc.ForceRelease(ctx, &admindto.ForceReleaseInput{
		TransactionID: deposit.ID, AdminID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, refund.Status)
	assert.Equal(t, int64(500000), refund.Amount.Centavos())

	// The unfrozen deposit and its refund cancel out.
	balance, err := f.ledger.GetPoolBalance()
	require.NoError(t, err)
	assert.True(t, balance.TotalHeld.IsZero())
	assert.True(t, balance.TotalFrozen.IsZero())
}

func TestExportTransactionsCSV(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.seedDeposit(t, nil, 500000)

	data, contentType, err := f.uc.ExportTransactions(ctx, &admindto.ExportTransactionsInput{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "contract_id")
	assert.Contains(t, lines[1], "deposit")
	assert.Contains(t, lines[1], "5000.00")
}

func TestExportTransactionsPDF(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.seedDeposit(t, nil, 500000)
	_, err := f.ledger.RecordTransaction(ctx, &ledgerdto.RecordTransactionInput{
		ContractID:  "contract-1",
		UserID:      "user-1",
		Type:        domain.TypeRelease,
		Amount:      domain.MoneyFromCentavos(200000),
		Description: "stud fee release",
	})
	require.NoError(t, err)

	data, contentType, err := f.uc.ExportTransactions(ctx, &admindto.ExportTransactionsInput{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportTransactionsRejectsUnknownFormat(t *testing.T) {
	f := newAdminFixture()

	_, _, err := f.uc.ExportTransactions(context.Background(), &admindto.ExportTransactionsInput{Format: "xlsx"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
