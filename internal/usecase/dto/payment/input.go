package paymentdto

import "github.com/pawlink/pool-service/internal/domain"

type CreateCheckoutInput struct {
	UserID      string
	ContractID  string
	Type        domain.PaymentType
	Amount      domain.Money
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

type ListPaymentsInput struct {
	UserID string
	Page   int
	Limit  int
}
