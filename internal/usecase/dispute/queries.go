package usecase

import (
	"github.com/pawlink/pool-service/internal/domain"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
)

func (disputeUc *DefaultDisputeUsecase) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetDisputeByID(disputeID)
}

func (disputeUc *DefaultDisputeUsecase) GetActiveContractDispute(contractID string) (*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetActiveDisputeByContractID(contractID)
}

func (disputeUc *DefaultDisputeUsecase) ListDisputes(input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error) {
	disputes, total, err := disputeUc.disputeRepo.ListDisputes(input.Filter)
	if err != nil {
		return nil, err
	}

	limit := input.Filter.Limit
	page := input.Filter.Page
	if limit <= 0 {
		limit = int(total)
		if limit == 0 {
			limit = 1
		}
	}
	if page <= 0 {
		page = 1
	}

	return &disputedto.ListDisputesOutput{
		Disputes: disputes,
		Pagination: disputedto.Pagination{
			CurrentPage:  int64(page),
			TotalPages:   (total + int64(limit) - 1) / int64(limit),
			TotalItems:   total,
			ItemsPerPage: int64(limit),
		},
	}, nil
}
