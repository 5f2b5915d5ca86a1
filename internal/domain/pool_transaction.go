package domain

import "time"

type TransactionType string

const (
	TypeDeposit      TransactionType = "deposit"
	TypeRelease      TransactionType = "release"
	TypeRefund       TransactionType = "refund"
	TypeFeeDeduction TransactionType = "fee_deduction"
)

type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFrozen    TransactionStatus = "frozen"
)

// IsCredit classifies the direction of a transaction type: deposits put
// money into the pool, everything else takes it out.
func IsCredit(t TransactionType) bool {
	return t == TypeDeposit
}

func IsKnownTransactionType(t TransactionType) bool {
	switch t {
	case TypeDeposit, TypeRelease, TypeRefund, TypeFeeDeduction:
		return true
	}
	return false
}

// MetadataVersion tags the metadata layout so reconciliation tooling can
// evolve field names without guessing.
const MetadataVersion = 1

// TransactionMetadata is the typed metadata blob stored on each ledger
// entry. Field names are stable across the export and reconciliation
// surfaces.
type TransactionMetadata struct {
	Version          int    `json:"version"`
	PaymentType      string `json:"payment_type,omitempty"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	GatewayRefundID  string `json:"gateway_refund_id,omitempty"`
	RefundStatus     string `json:"refund_status,omitempty"`
	AdminID          string `json:"admin_id,omitempty"`
	DisputeID        string `json:"dispute_id,omitempty"`
	OriginalAmount   string `json:"original_amount,omitempty"`
	GatewayError     string `json:"gateway_error,omitempty"`
	Note             string `json:"note,omitempty"`
}

// PoolTransaction is an atomic ledger entry. Amount and Type are
// immutable once written; only Status may transition
// (pending -> completed, completed <-> frozen).
type PoolTransaction struct {
	ID           string
	PaymentID    *string
	ContractID   string
	UserID       string
	Type         TransactionType
	Amount       Money
	Currency     string
	BalanceAfter Money
	Status       TransactionStatus
	Description  string
	Metadata     TransactionMetadata
	ProcessedAt  time.Time
	ProcessedBy  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignedAmount applies the credit/debit classification to the stored
// positive amount.
func (t *PoolTransaction) SignedAmount() Money {
	if IsCredit(t.Type) {
		return t.Amount
	}
	return t.Amount.Neg()
}

func (t *PoolTransaction) IsFrozen() bool {
	return t.Status == TxStatusFrozen
}

func (t *PoolTransaction) IsCompleted() bool {
	return t.Status == TxStatusCompleted
}

func (t *PoolTransaction) IsPending() bool {
	return t.Status == TxStatusPending
}

// IsSettled reports whether the entry counts toward the held pool
// balance. Frozen entries stay settled; freezing changes custody state,
// not the ledger of record.
func (t *PoolTransaction) IsSettled() bool {
	return t.Status == TxStatusCompleted || t.Status == TxStatusFrozen
}

// TransactionFilter narrows ledger listings and exports.
type TransactionFilter struct {
	ContractID *string
	UserID     *string
	Type       *TransactionType
	Status     *TransactionStatus
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type PoolTransactionRepository interface {
	CreateTransaction(tx *PoolTransaction) error
	GetTransactionByID(id string) (*PoolTransaction, error)
	GetLastSettledTransaction() (*PoolTransaction, error)
	UpdateTransactionStatus(id string, status TransactionStatus) error
	// CompleteTransaction flips a pending entry to completed and stamps
	// the balance recomputed at completion time.
	CompleteTransaction(id string, balanceAfter Money, metadata TransactionMetadata) error
	GetContractTransactions(contractID string) ([]*PoolTransaction, error)
	ListTransactions(filter TransactionFilter) ([]*PoolTransaction, int64, error)
	// SumSignedAmounts reduces signed amounts over the given statuses,
	// optionally scoped to one contract.
	SumSignedAmounts(contractID *string, statuses []TransactionStatus) (Money, error)
	SumAmountsByStatus(contractID *string, status TransactionStatus) (Money, error)
	SumAmountsByType(txType TransactionType, statuses []TransactionStatus) (Money, error)
	// SumDepositsByPaymentType groups completed deposit inflow by the
	// payment type recorded in entry metadata.
	SumDepositsByPaymentType() (map[string]Money, error)
	CountTransactions() (int64, error)
	GetMonthlyFlow(year int) ([]*MonthlyPoolFlow, error)
	HasDepositForPayment(paymentID string) (bool, error)
	FreezeContractTransactions(contractID string) (int64, error)
	UnfreezeContractTransactions(contractID string) (int64, error)
	FindPendingRefunds() ([]*PoolTransaction, error)
}
