package usecase

import (
	"bytes"
	"context"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/export"
	admindto "github.com/pawlink/pool-service/internal/usecase/dto/admin"
	ledgerdto "github.com/pawlink/pool-service/internal/usecase/dto/ledger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ExportTransactions renders the full transaction log in the requested
// format and returns the bytes with their content type.
func (adminUc *DefaultAdminUsecase) ExportTransactions(ctx context.Context, input *admindto.ExportTransactionsInput) ([]byte, string, error) {
	filter := domain.TransactionFilter{
		Type: input.Type,
		From: input.From,
		To:   input.To,
	}
	result, err := adminUc.ledgerUc.ListTransactions(&ledgerdto.ListTransactionsInput{Filter: filter})
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	switch input.Format {
	case "csv", "":
		if err := export.WriteTransactionsCSV(&buf, result.Transactions); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv", nil
	case "pdf":
		if err := export.WriteTransactionsPDF(&buf, "Pool Transaction Log", result.Transactions); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "application/pdf", nil
	}
	return nil, "", status.Error(codes.InvalidArgument, "unsupported export format")
}
