package kafka

type PoolEvent struct {
	TransactionID string `json:"transaction_id"`
	ContractID    string `json:"contract_id"`
	UserID        string `json:"user_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}
