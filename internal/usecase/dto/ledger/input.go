package ledgerdto

import (
	"github.com/pawlink/pool-service/internal/domain"
)

type RecordTransactionInput struct {
	PaymentID   *string
	ContractID  string
	UserID      string
	Type        domain.TransactionType
	Amount      domain.Money
	Currency    string
	Status      domain.TransactionStatus
	Description string
	Metadata    domain.TransactionMetadata
	ProcessedBy string
}

type ListTransactionsInput struct {
	Filter domain.TransactionFilter
}
