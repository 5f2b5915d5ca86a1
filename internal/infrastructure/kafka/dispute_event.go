package kafka

type DisputeEvent struct {
	DisputeID      string `json:"dispute_id"`
	ContractID     string `json:"contract_id"`
	RaisedBy       string `json:"raised_by"`
	Reason         string `json:"reason"`
	Status         string `json:"status"`
	ResolutionType string `json:"resolution_type,omitempty"`
	ResolvedAmount string `json:"resolved_amount,omitempty"`
}
