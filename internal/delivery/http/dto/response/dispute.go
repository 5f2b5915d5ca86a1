package response

import (
	"time"

	"github.com/pawlink/pool-service/internal/domain"
)

type DisputeResponse struct {
	ID              string     `json:"id"`
	ContractID      string     `json:"contract_id"`
	RaisedBy        string     `json:"raised_by"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ResolutionType  string     `json:"resolution_type,omitempty"`
	ResolvedAmount  *string    `json:"resolved_amount,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func FromDispute(dispute *domain.Dispute) DisputeResponse {
	resp := DisputeResponse{
		ID:              dispute.ID,
		ContractID:      dispute.ContractID,
		RaisedBy:        dispute.RaisedBy,
		Reason:          dispute.Reason,
		Status:          string(dispute.Status),
		ResolutionType:  string(dispute.ResolutionType),
		ResolutionNotes: dispute.ResolutionNotes,
		ResolvedBy:      dispute.ResolvedBy,
		ResolvedAt:      dispute.ResolvedAt,
		CreatedAt:       dispute.CreatedAt,
	}
	if dispute.ResolvedAmount != nil {
		amount := dispute.ResolvedAmount.String()
		resp.ResolvedAmount = &amount
	}
	return resp
}

func FromDisputes(disputes []*domain.Dispute) []DisputeResponse {
	out := make([]DisputeResponse, len(disputes))
	for i, dispute := range disputes {
		out[i] = FromDispute(dispute)
	}
	return out
}

type DisputeListResponse struct {
	Disputes   []DisputeResponse  `json:"disputes"`
	Pagination PaginationResponse `json:"pagination"`
}
