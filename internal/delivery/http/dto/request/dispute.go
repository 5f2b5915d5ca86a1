package request

type CreateDisputeRequest struct {
	ContractID string `json:"contract_id"`
	Reason     string `json:"reason"`
}

type ResolveDisputeRequest struct {
	ResolutionType  string  `json:"resolution_type"`
	ResolvedAmount  *string `json:"resolved_amount,omitempty"`
	ResolutionNotes string  `json:"resolution_notes,omitempty"`
}

type FreezeTransactionRequest struct {
	Reason string `json:"reason,omitempty"`
}
