package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pawlink/pool-service/internal/domain"
)

// WriteTransactionsPDF renders a landscape A4 statement of ledger
// entries with a summary line of credit and debit totals.
func WriteTransactionsPDF(w io.Writer, title string, transactions []*domain.PoolTransaction) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04:05"))
	pdf.Ln(10)

	widths := []float64{42, 32, 36, 36, 26, 28, 18, 22, 37}
	headers := []string{"ID", "Date", "User", "Contract", "Type", "Amount", "Cur", "Status", "Description"}

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	var creditTotal, debitTotal domain.Money
	for _, tx := range transactions {
		if domain.IsCredit(tx.Type) {
			creditTotal = creditTotal.Add(tx.Amount)
		} else {
			debitTotal = debitTotal.Add(tx.Amount)
		}

		cells := []string{
			truncate(tx.ID, 30),
			tx.CreatedAt.Format("2006-01-02 15:04"),
			truncate(tx.UserID, 24),
			truncate(tx.ContractID, 24),
			string(tx.Type),
			tx.Amount.String(),
			tx.Currency,
			string(tx.Status),
			truncate(tx.Description, 28),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Entries: %d    Credits: %s    Debits: %s",
		len(transactions), creditTotal.String(), debitTotal.String()))

	return pdf.Output(w)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
