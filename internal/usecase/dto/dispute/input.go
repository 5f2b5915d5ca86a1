package disputedto

import "github.com/pawlink/pool-service/internal/domain"

type CreateDisputeInput struct {
	ContractID string
	RaisedBy   string
	Reason     string
}

type ResolveDisputeInput struct {
	DisputeID       string
	ResolutionType  domain.ResolutionType
	ResolvedAmount  *domain.Money
	ResolutionNotes string
	AdminID         string
}

type DismissDisputeInput struct {
	DisputeID       string
	ResolutionNotes string
	AdminID         string
}

type ListDisputesInput struct {
	Filter domain.DisputeFilter
}
