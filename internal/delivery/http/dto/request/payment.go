package request

type CreateCheckoutRequest struct {
	ContractID  string `json:"contract_id"`
	PaymentType string `json:"payment_type"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}
