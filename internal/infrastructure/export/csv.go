package export

import (
	"encoding/csv"
	"io"

	"github.com/pawlink/pool-service/internal/domain"
)

var transactionHeader = []string{
	"id", "date", "user_id", "contract_id", "type", "amount", "currency", "status", "description",
}

// WriteTransactionsCSV streams ledger entries as CSV rows.
func WriteTransactionsCSV(w io.Writer, transactions []*domain.PoolTransaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(transactionHeader); err != nil {
		return err
	}

	for _, tx := range transactions {
		record := []string{
			tx.ID,
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
			tx.UserID,
			tx.ContractID,
			string(tx.Type),
			tx.Amount.String(),
			tx.Currency,
			string(tx.Status),
			tx.Description,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteDisputesCSV streams disputes as CSV rows.
func WriteDisputesCSV(w io.Writer, disputes []*domain.Dispute) error {
	writer := csv.NewWriter(w)
	header := []string{
		"id", "contract_id", "raised_by", "status", "resolution_type", "resolved_amount", "created_at", "resolved_at",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, d := range disputes {
		resolvedAmount := ""
		if d.ResolvedAmount != nil {
			resolvedAmount = d.ResolvedAmount.String()
		}
		resolvedAt := ""
		if d.ResolvedAt != nil {
			resolvedAt = d.ResolvedAt.Format("2006-01-02 15:04:05")
		}
		record := []string{
			d.ID,
			d.ContractID,
			d.RaisedBy,
			string(d.Status),
			string(d.ResolutionType),
			resolvedAmount,
			d.CreatedAt.Format("2006-01-02 15:04:05"),
			resolvedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
