// Package testutil provides in-memory repository and gateway fakes for
// usecase tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// FakeTransactionRepo is an in-memory PoolTransactionRepository that
// preserves insertion order.
type FakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []*domain.PoolTransaction
	clock        time.Time

	// FailNextCreate makes the next CreateTransaction return this
	// error once, then clears itself.
	FailNextCreate error
}

func NewFakeTransactionRepo() *FakeTransactionRepo {
	return &FakeTransactionRepo{clock: time.Now().Add(-time.Hour)}
}

func (r *FakeTransactionRepo) nextTime() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *FakeTransactionRepo) CreateTransaction(tx *domain.PoolTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailNextCreate; err != nil {
		r.FailNextCreate = nil
		return err
	}
	now := r.nextTime()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	cp := *tx
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *FakeTransactionRepo) GetTransactionByID(id string) (*domain.PoolTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeTransactionRepo) GetLastSettledTransaction() (*domain.PoolTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *domain.PoolTransaction
	for _, tx := range r.transactions {
		if !tx.IsSettled() {
			continue
		}
		if last == nil || !tx.ProcessedAt.Before(last.ProcessedAt) {
			last = tx
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (r *FakeTransactionRepo) UpdateTransactionStatus(id string, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.ID == id {
			tx.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeTransactionRepo) CompleteTransaction(id string, balanceAfter domain.Money, metadata domain.TransactionMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.ID == id && tx.IsPending() {
			tx.Status = domain.TxStatusCompleted
			tx.BalanceAfter = balanceAfter
			tx.Metadata = metadata
			tx.ProcessedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *FakeTransactionRepo) GetContractTransactions(contractID string) ([]*domain.PoolTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PoolTransaction
	for _, tx := range r.transactions {
		if tx.ContractID == contractID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeTransactionRepo) ListTransactions(filter domain.TransactionFilter) ([]*domain.PoolTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.PoolTransaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		tx := r.transactions[i]
		if filter.ContractID != nil && tx.ContractID != *filter.ContractID {
			continue
		}
		if filter.UserID != nil && tx.UserID != *filter.UserID {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && tx.Status != *filter.Status {
			continue
		}
		if filter.From != nil && tx.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *tx
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	if filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start < 0 {
			start = 0
		}
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *FakeTransactionRepo) SumSignedAmounts(contractID *string, statuses []domain.TransactionStatus) (domain.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum domain.Money
	for _, tx := range r.transactions {
		if contractID != nil && tx.ContractID != *contractID {
			continue
		}
		if !statusIn(tx.Status, statuses) {
			continue
		}
		sum = sum.Add(tx.SignedAmount())
	}
	return sum, nil
}

func (r *FakeTransactionRepo) SumAmountsByStatus(contractID *string, status domain.TransactionStatus) (domain.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum domain.Money
	for _, tx := range r.transactions {
		if contractID != nil && tx.ContractID != *contractID {
			continue
		}
		if tx.Status == status {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *FakeTransactionRepo) SumAmountsByType(txType domain.TransactionType, statuses []domain.TransactionStatus) (domain.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum domain.Money
	for _, tx := range r.transactions {
		if tx.Type == txType && statusIn(tx.Status, statuses) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *FakeTransactionRepo) SumDepositsByPaymentType() (map[string]domain.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	revenue := make(map[string]domain.Money)
	for _, tx := range r.transactions {
		if tx.Type == domain.TypeDeposit && tx.IsCompleted() {
			revenue[tx.Metadata.PaymentType] = revenue[tx.Metadata.PaymentType].Add(tx.Amount)
		}
	}
	return revenue, nil
}

func (r *FakeTransactionRepo) CountTransactions() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.transactions)), nil
}

func (r *FakeTransactionRepo) GetMonthlyFlow(year int) ([]*domain.MonthlyPoolFlow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flows := make([]*domain.MonthlyPoolFlow, 12)
	for i := range flows {
		flows[i] = &domain.MonthlyPoolFlow{Year: year, Month: i + 1}
	}
	for _, tx := range r.transactions {
		if !tx.IsSettled() || tx.CreatedAt.Year() != year {
			continue
		}
		flow := flows[int(tx.CreatedAt.Month())-1]
		switch tx.Type {
		case domain.TypeDeposit:
			flow.Deposits = flow.Deposits.Add(tx.Amount)
		case domain.TypeRelease:
			flow.Releases = flow.Releases.Add(tx.Amount)
		case domain.TypeRefund:
			flow.Refunds = flow.Refunds.Add(tx.Amount)
		case domain.TypeFeeDeduction:
			flow.Fees = flow.Fees.Add(tx.Amount)
		}
	}
	return flows, nil
}

func (r *FakeTransactionRepo) HasDepositForPayment(paymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.Type == domain.TypeDeposit && tx.PaymentID != nil && *tx.PaymentID == paymentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeTransactionRepo) FreezeContractTransactions(contractID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, tx := range r.transactions {
		if tx.ContractID == contractID && tx.IsCompleted() {
			tx.Status = domain.TxStatusFrozen
			affected++
		}
	}
	return affected, nil
}

func (r *FakeTransactionRepo) UnfreezeContractTransactions(contractID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, tx := range r.transactions {
		if tx.ContractID == contractID && tx.IsFrozen() {
			tx.Status = domain.TxStatusCompleted
			affected++
		}
	}
	return affected, nil
}

func (r *FakeTransactionRepo) FindPendingRefunds() ([]*domain.PoolTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PoolTransaction
	for _, tx := range r.transactions {
		if tx.IsPending() && tx.Type == domain.TypeRefund {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

// TamperBalance overwrites a stored running balance so tests can
// simulate a corrupted chain.
func (r *FakeTransactionRepo) TamperBalance(id string, balanceAfter domain.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.ID == id {
			tx.BalanceAfter = balanceAfter
			return
		}
	}
}

func statusIn(status domain.TransactionStatus, statuses []domain.TransactionStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// FakePaymentRepo is an in-memory PaymentRepository.
type FakePaymentRepo struct {
	mu       sync.Mutex
	payments []*domain.Payment
}

func NewFakePaymentRepo() *FakePaymentRepo {
	return &FakePaymentRepo{}
}

func (r *FakePaymentRepo) CreatePayment(payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *FakePaymentRepo) find(id string) *domain.Payment {
	for _, payment := range r.payments {
		if payment.ID == id {
			return payment
		}
	}
	return nil
}

func (r *FakePaymentRepo) GetPaymentByID(id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment := r.find(id); payment != nil {
		cp := *payment
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakePaymentRepo) GetPaymentByCheckoutID(checkoutID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.CheckoutID == checkoutID {
			cp := *payment
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakePaymentRepo) FindAwaitingCheckout(userID, contractID string, paymentType domain.PaymentType) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.UserID == userID && payment.ContractID == contractID &&
			payment.Type == paymentType &&
			(payment.Status == domain.PaymentPending || payment.Status == domain.PaymentAwaitingPayment) {
			cp := *payment
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakePaymentRepo) MarkPaid(id, gatewayPaymentID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment := r.find(id)
	if payment == nil {
		return gorm.ErrRecordNotFound
	}
	payment.Status = domain.PaymentPaid
	payment.PaidAt = &paidAt
	if gatewayPaymentID != "" {
		payment.GatewayPaymentID = gatewayPaymentID
	}
	return nil
}

func (r *FakePaymentRepo) UpdatePaymentStatus(id string, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment := r.find(id)
	if payment == nil {
		return gorm.ErrRecordNotFound
	}
	payment.Status = status
	return nil
}

func (r *FakePaymentRepo) UpdatePoolStatus(id string, poolStatus domain.PoolStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment := r.find(id)
	if payment == nil {
		return gorm.ErrRecordNotFound
	}
	payment.PoolStatus = poolStatus
	return nil
}

func (r *FakePaymentRepo) SetGatewayRefundID(id, refundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment := r.find(id)
	if payment == nil {
		return gorm.ErrRecordNotFound
	}
	payment.GatewayRefundID = refundID
	return nil
}

func (r *FakePaymentRepo) GetContractPayments(contractID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, payment := range r.payments {
		if payment.ContractID == contractID {
			cp := *payment
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakePaymentRepo) GetPooledPayments(contractID string, userID *string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, payment := range r.payments {
		if payment.ContractID != contractID || !payment.IsPaid() || payment.PoolStatus != domain.PoolInPool {
			continue
		}
		if userID != nil && payment.UserID != *userID {
			continue
		}
		cp := *payment
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakePaymentRepo) GetUserPayments(userID string, page, limit int) ([]*domain.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, payment := range r.payments {
		if payment.UserID == userID {
			cp := *payment
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *FakePaymentRepo) FindExpiredAwaiting(now time.Time) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, payment := range r.payments {
		if payment.IsAwaiting() && payment.ExpiresAt != nil && payment.ExpiresAt.Before(now) {
			cp := *payment
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakePaymentRepo) SumAwaitingDeposits(userID string) (domain.Money, error) {
	return r.sumAwaiting(&userID)
}

func (r *FakePaymentRepo) SumAllAwaitingDeposits() (domain.Money, error) {
	return r.sumAwaiting(nil)
}

func (r *FakePaymentRepo) sumAwaiting(userID *string) (domain.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum domain.Money
	for _, payment := range r.payments {
		if !payment.IsAwaiting() {
			continue
		}
		if userID != nil && payment.UserID != *userID {
			continue
		}
		sum = sum.Add(payment.Amount)
	}
	return sum, nil
}

// FakeDisputeRepo enforces the guarded single-active-dispute insert.
type FakeDisputeRepo struct {
	mu       sync.Mutex
	disputes []*domain.Dispute
}

func NewFakeDisputeRepo() *FakeDisputeRepo {
	return &FakeDisputeRepo{}
}

func (r *FakeDisputeRepo) CreateDispute(dispute *domain.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.disputes {
		if existing.ContractID == dispute.ContractID && existing.IsActive() {
			return domain.ErrDisputeAlreadyActive
		}
	}
	now := time.Now()
	dispute.CreatedAt = now
	dispute.UpdatedAt = now
	cp := *dispute
	r.disputes = append(r.disputes, &cp)
	return nil
}

func (r *FakeDisputeRepo) GetDisputeByID(id string) (*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dispute := range r.disputes {
		if dispute.ID == id {
			cp := *dispute
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeDisputeRepo) GetActiveDisputeByContractID(contractID string) (*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dispute := range r.disputes {
		if dispute.ContractID == contractID && dispute.IsActive() {
			cp := *dispute
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeDisputeRepo) HasActiveDispute(contractID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dispute := range r.disputes {
		if dispute.ContractID == contractID && dispute.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeDisputeRepo) FinalizeDispute(updated *domain.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, dispute := range r.disputes {
		if dispute.ID == updated.ID {
			cp := *updated
			r.disputes[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeDisputeRepo) ListDisputes(filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Dispute
	for _, dispute := range r.disputes {
		if filter.ContractID != nil && dispute.ContractID != *filter.ContractID {
			continue
		}
		if filter.RaisedBy != nil && dispute.RaisedBy != *filter.RaisedBy {
			continue
		}
		if filter.Status != nil && dispute.Status != *filter.Status {
			continue
		}
		cp := *dispute
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *FakeDisputeRepo) CountActiveDisputes() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, dispute := range r.disputes {
		if dispute.IsActive() {
			count++
		}
	}
	return count, nil
}

// FakeContractRepo serves a fixed set of contracts.
type FakeContractRepo struct {
	mu        sync.Mutex
	contracts map[string]*domain.Contract
}

func NewFakeContractRepo(contracts ...*domain.Contract) *FakeContractRepo {
	repo := &FakeContractRepo{contracts: make(map[string]*domain.Contract)}
	for _, contract := range contracts {
		repo.contracts[contract.ID] = contract
	}
	return repo
}

func (r *FakeContractRepo) Add(contract *domain.Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[contract.ID] = contract
}

func (r *FakeContractRepo) GetContractByID(id string) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *contract
	return &cp, nil
}

// FakeGateway is a scriptable PaymentGateway.
type FakeGateway struct {
	mu sync.Mutex

	// PaidCheckouts maps checkout ids to gateway payment ids reported
	// as paid on verification.
	PaidCheckouts    map[string]string
	ExpiredCheckouts map[string]bool

	FailRefunds   bool
	FailCheckouts bool

	CheckoutCalls int
	VerifyCalls   int
	RefundCalls   int

	refundSeq int
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		PaidCheckouts:    make(map[string]string),
		ExpiredCheckouts: make(map[string]bool),
	}
}

func (g *FakeGateway) CreateCheckout(ctx context.Context, input domain.CheckoutInput) (*domain.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CheckoutCalls++
	if g.FailCheckouts {
		return nil, fmt.Errorf("gateway unavailable")
	}
	expiresAt := time.Now().Add(24 * time.Hour)
	checkoutID := fmt.Sprintf("cs_%d", g.CheckoutCalls)
	return &domain.CheckoutSession{
		CheckoutID:  checkoutID,
		CheckoutURL: "https://checkout.example.com/" + checkoutID,
		ExpiresAt:   &expiresAt,
	}, nil
}

func (g *FakeGateway) VerifyPayment(ctx context.Context, checkoutID string) (*domain.VerificationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.VerifyCalls++
	if gatewayPaymentID, ok := g.PaidCheckouts[checkoutID]; ok {
		paidAt := time.Now()
		return &domain.VerificationResult{
			Status:           domain.GatewayCheckoutPaid,
			GatewayPaymentID: gatewayPaymentID,
			PaidAt:           &paidAt,
		}, nil
	}
	if g.ExpiredCheckouts[checkoutID] {
		return &domain.VerificationResult{Status: domain.GatewayCheckoutExpired}, nil
	}
	return &domain.VerificationResult{Status: domain.GatewayCheckoutActive}, nil
}

func (g *FakeGateway) CreateRefund(ctx context.Context, gatewayPaymentID string, amountCentavos int64, reason string) (*domain.RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RefundCalls++
	if g.FailRefunds {
		return &domain.RefundResult{Success: false, Error: "gateway timeout"}, nil
	}
	g.refundSeq++
	return &domain.RefundResult{
		Success:  true,
		RefundID: fmt.Sprintf("ref_%d", g.refundSeq),
		Status:   "succeeded",
	}, nil
}

// FakeAuditLogger captures audit events in memory.
type FakeAuditLogger struct {
	mu             sync.Mutex
	AdminActions   []logger.AdminActionEvent
	DisputeRecords []logger.DisputeResolvedEvent
}

func NewFakeAuditLogger() *FakeAuditLogger {
	return &FakeAuditLogger{}
}

func (l *FakeAuditLogger) LogAdminAction(ctx context.Context, event logger.AdminActionEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.AdminActions = append(l.AdminActions, event)
	return nil
}

func (l *FakeAuditLogger) LogDisputeResolved(ctx context.Context, event logger.DisputeResolvedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.DisputeRecords = append(l.DisputeRecords, event)
	return nil
}
