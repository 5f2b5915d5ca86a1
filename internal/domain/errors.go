package domain

import "errors"

var (
	ErrNonPositiveAmount      = errors.New("transaction amount must be positive")
	ErrSubCentavoAmount       = errors.New("amount has sub-centavo precision")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrCurrencyMismatch       = errors.New("currency mismatch for contract pool")
	ErrLedgerContention       = errors.New("ledger write lock contention")
	ErrLedgerIntegrity        = errors.New("ledger integrity violation")
	ErrPoolHalted             = errors.New("pool writes halted pending operator review")
	ErrDepositAlreadyRecorded = errors.New("deposit already recorded for payment")
	ErrDisputeAlreadyActive   = errors.New("active dispute already exists for contract")
	ErrDisputeNotActive       = errors.New("dispute is not active")
	ErrContractNotDisputable  = errors.New("contract is not in a disputable state")
	ErrRefundExceedsBalance   = errors.New("refund amount exceeds remaining contract balance")
	ErrTransactionFrozen      = errors.New("transaction is already frozen")
	ErrTransactionNotFrozen   = errors.New("transaction is not frozen")
	ErrTransactionNotSettled  = errors.New("transaction is not settled")
	ErrPaymentNotPoolable     = errors.New("payment type is not poolable")
	ErrCheckoutFailed         = errors.New("failed to create gateway checkout session")
)
