package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/testutil"
	paymentdto "github.com/pawlink/pool-service/internal/usecase/dto/payment"
	ledgeruc "github.com/pawlink/pool-service/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	fail bool
}

func (v *fakeVerifier) VerifyWebhookSignature(payload []byte, signatureHeader string) error {
	if v.fail {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

type paymentFixture struct {
	uc          *DefaultPaymentUsecase
	paymentRepo *testutil.FakePaymentRepo
	txRepo      *testutil.FakeTransactionRepo
	gateway     *testutil.FakeGateway
	verifier    *fakeVerifier
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		paymentRepo: testutil.NewFakePaymentRepo(),
		txRepo:      testutil.NewFakeTransactionRepo(),
		gateway:     testutil.NewFakeGateway(),
		verifier:    &fakeVerifier{},
	}
	ledger := ledgeruc.NewDefaultLedgerUsecase(
		f.txRepo, f.paymentRepo, testutil.NewFakeDisputeRepo(), testutil.NewFakeContractRepo(), f.gateway, nil, nil)
	f.uc = NewDefaultPaymentUsecase(f.paymentRepo, f.txRepo, f.gateway, f.verifier, ledger, nil)
	return f
}

func checkoutInput() *paymentdto.CreateCheckoutInput {
	return &paymentdto.CreateCheckoutInput{
		UserID:      "user-1",
		ContractID:  "contract-1",
		Type:        domain.PaymentCollateral,
		Amount:      domain.MoneyFromCentavos(500000),
		Description: "breeding contract collateral",
		SuccessURL:  "https://app.example.com/success",
		CancelURL:   "https://app.example.com/cancel",
	}
}

func TestCreateCheckout(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	out, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.PaymentID)
	assert.NotEmpty(t, out.CheckoutURL)
	require.NotNil(t, out.ExpiresAt)

	payment, err := f.paymentRepo.GetPaymentByID(out.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAwaitingPayment, payment.Status)
	assert.Equal(t, domain.PoolNotPooled, payment.PoolStatus)
	assert.Equal(t, "PHP", payment.Currency)
	assert.Equal(t, 1, f.gateway.CheckoutCalls)
}

func TestCreateCheckoutValidation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	input := checkoutInput()
	input.Amount = domain.Money{}
	_, err := f.uc.CreateCheckout(ctx, input)
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)

	input = checkoutInput()
	input.Type = "subscription"
	_, err = f.uc.CreateCheckout(ctx, input)
	assert.ErrorIs(t, err, domain.ErrPaymentNotPoolable)

	f.gateway.FailCheckouts = true
	_, err = f.uc.CreateCheckout(ctx, checkoutInput())
	assert.ErrorIs(t, err, domain.ErrCheckoutFailed)
}

func TestCreateCheckoutReusesAwaitingSession(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	first, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)

	second, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, first.CheckoutURL, second.CheckoutURL)
	assert.Equal(t, 1, f.gateway.CheckoutCalls)

	// A different payment type gets its own session.
	other := checkoutInput()
	other.Type = domain.PaymentShooterPayment
	third, err := f.uc.CreateCheckout(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, first.PaymentID, third.PaymentID)
	assert.Equal(t, 2, f.gateway.CheckoutCalls)
}

func TestVerifyPaymentCreditsPoolOnce(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	out, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)
	payment, err := f.paymentRepo.GetPaymentByID(out.PaymentID)
	require.NoError(t, err)

	f.gateway.PaidCheckouts[payment.CheckoutID] = "pay_live_123"

	verdict, err := f.uc.VerifyPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, verdict.Status)
	require.NotNil(t, verdict.PaidAt)

	paid, err := f.paymentRepo.GetPaymentByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.Status)
	assert.Equal(t, domain.PoolInPool, paid.PoolStatus)
	assert.Equal(t, "pay_live_123", paid.GatewayPaymentID)

	// Verifying again neither hits the gateway nor double-credits.
	verifyCalls := f.gateway.VerifyCalls
	again, err := f.uc.VerifyPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, again.Status)
	assert.Equal(t, verifyCalls, f.gateway.VerifyCalls)

	depositType := domain.TypeDeposit
	deposits, _, err := f.txRepo.ListTransactions(domain.TransactionFilter{Type: &depositType})
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, int64(500000), deposits[0].Amount.Centavos())
	assert.Equal(t, "pay_live_123", deposits[0].Metadata.GatewayPaymentID)
	assert.Equal(t, int64(500000), deposits[0].BalanceAfter.Centavos())
}

func TestVerifyPaymentRecoversMissedDeposit(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	out, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)
	payment, err := f.paymentRepo.GetPaymentByID(out.PaymentID)
	require.NoError(t, err)

	f.gateway.PaidCheckouts[payment.CheckoutID] = "pay_live_789"

	// The payment is marked paid but the ledger append fails, leaving a
	// paid payment with no deposit entry.
	f.txRepo.FailNextCreate = fmt.Errorf("connection reset")
	_, err = f.uc.VerifyPayment(ctx, payment.ID)
	require.Error(t, err)

	paid, err := f.paymentRepo.GetPaymentByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.Status)
	count, err := f.txRepo.CountTransactions()
	require.NoError(t, err)
	assert.Zero(t, count)

	// The retry credits the pool without another gateway round trip.
	verifyCalls := f.gateway.VerifyCalls
	verdict, err := f.uc.VerifyPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, verdict.Status)
	assert.Equal(t, verifyCalls, f.gateway.VerifyCalls)

	healed, err := f.paymentRepo.GetPaymentByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PoolInPool, healed.PoolStatus)

	depositType := domain.TypeDeposit
	deposits, _, err := f.txRepo.ListTransactions(domain.TransactionFilter{Type: &depositType})
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, int64(500000), deposits[0].Amount.Centavos())
}

func TestVerifyPaymentExpiredCheckout(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	out, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)
	payment, err := f.paymentRepo.GetPaymentByID(out.PaymentID)
	require.NoError(t, err)

	f.gateway.ExpiredCheckouts[payment.CheckoutID] = true

	verdict, err := f.uc.VerifyPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentExpired, verdict.Status)

	deposits, err := f.txRepo.FindPendingRefunds()
	require.NoError(t, err)
	assert.Empty(t, deposits)
	count, err := f.txRepo.CountTransactions()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleWebhook(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	out, err := f.uc.CreateCheckout(ctx, checkoutInput())
	require.NoError(t, err)
	payment, err := f.paymentRepo.GetPaymentByID(out.PaymentID)
	require.NoError(t, err)
	f.gateway.PaidCheckouts[payment.CheckoutID] = "pay_live_456"

	payload := []byte(fmt.Sprintf(`{
		"data": {
			"attributes": {
				"type": "checkout_session.payment.paid",
				"data": {"id": %q, "attributes": {}}
			}
		}
	}`, payment.CheckoutID))

	require.NoError(t, f.uc.HandleWebhook(ctx, payload, "t=1,te=sig"))

	paid, err := f.paymentRepo.GetPaymentByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.Status)
	assert.Equal(t, domain.PoolInPool, paid.PoolStatus)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.fail = true

	err := f.uc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,te=bad")
	assert.Error(t, err)
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	f := newPaymentFixture()

	payload := []byte(`{"data": {"attributes": {"type": "payment.refund.updated", "data": {"id": "ref_1"}}}}`)
	assert.NoError(t, f.uc.HandleWebhook(context.Background(), payload, "t=1,te=sig"))
}

func TestExpireStalePayments(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	stale := time.Now().Add(-time.Hour)
	fresh := time.Now().Add(time.Hour)
	require.NoError(t, f.paymentRepo.CreatePayment(&domain.Payment{
		ID: "payment-stale", UserID: "user-1", ContractID: "contract-1",
		Type: domain.PaymentCollateral, Amount: domain.MoneyFromCentavos(100000),
		Status: domain.PaymentAwaitingPayment, PoolStatus: domain.PoolNotPooled,
		ExpiresAt: &stale,
	}))
	require.NoError(t, f.paymentRepo.CreatePayment(&domain.Payment{
		ID: "payment-fresh", UserID: "user-1", ContractID: "contract-1",
		Type: domain.PaymentCollateral, Amount: domain.MoneyFromCentavos(100000),
		Status: domain.PaymentAwaitingPayment, PoolStatus: domain.PoolNotPooled,
		ExpiresAt: &fresh,
	}))

	expired, err := f.uc.ExpireStalePayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	payment, err := f.paymentRepo.GetPaymentByID("payment-stale")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentExpired, payment.Status)

	payment, err = f.paymentRepo.GetPaymentByID("payment-fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAwaitingPayment, payment.Status)
}
