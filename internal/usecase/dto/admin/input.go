package admindto

import (
	"time"

	"github.com/pawlink/pool-service/internal/domain"
)

type FreezeTransactionInput struct {
	TransactionID string
	AdminID       string
	Reason        string
}

type ForceReleaseInput struct {
	TransactionID string
	AdminID       string
	Reason        string
}

type ExportTransactionsInput struct {
	Format string
	From   *time.Time
	To     *time.Time
	Type   *domain.TransactionType
}
