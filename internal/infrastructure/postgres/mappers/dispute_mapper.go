package mappers

import (
	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	var resolvedAmount *domain.Money
	if model.ResolvedAmount != nil {
		amount := domain.MoneyFromCentavos(*model.ResolvedAmount)
		resolvedAmount = &amount
	}
	return &domain.Dispute{
		ID:              model.ID,
		ContractID:      model.ContractID,
		RaisedBy:        model.RaisedBy,
		Reason:          model.Reason,
		Status:          domain.DisputeStatus(model.Status),
		ResolutionType:  domain.ResolutionType(model.ResolutionType),
		ResolvedAmount:  resolvedAmount,
		ResolutionNotes: model.ResolutionNotes,
		ResolvedBy:      model.ResolvedBy,
		ResolvedAt:      model.ResolvedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	var resolvedAmount *int64
	if dispute.ResolvedAmount != nil {
		centavos := dispute.ResolvedAmount.Centavos()
		resolvedAmount = &centavos
	}
	var active *bool
	if dispute.IsActive() {
		flag := true
		active = &flag
	}
	return &models.DisputeModel{
		ID:              dispute.ID,
		ContractID:      dispute.ContractID,
		RaisedBy:        dispute.RaisedBy,
		Reason:          dispute.Reason,
		Status:          string(dispute.Status),
		Active:          active,
		ResolutionType:  string(dispute.ResolutionType),
		ResolvedAmount:  resolvedAmount,
		ResolutionNotes: dispute.ResolutionNotes,
		ResolvedBy:      dispute.ResolvedBy,
		ResolvedAt:      dispute.ResolvedAt,
		CreatedAt:       dispute.CreatedAt,
		UpdatedAt:       dispute.UpdatedAt,
	}
}

func ToDomainContract(model *models.ContractModel) *domain.Contract {
	return &domain.Contract{
		ID:                     model.ID,
		Status:                 domain.ContractStatus(model.Status),
		OwnerUserID:            model.OwnerUserID,
		CounterpartyUserID:     model.CounterpartyUserID,
		ShooterUserID:          model.ShooterUserID,
		CancellationFeePercent: model.CancellationFeePercent,
		CreatedAt:              model.CreatedAt,
		UpdatedAt:              model.UpdatedAt,
	}
}
