package repository

import (
	"errors"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/mappers"
	"github.com/pawlink/pool-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

var activeDisputeStatuses = []string{
	string(domain.DisputeOpen),
	string(domain.DisputeUnderReview),
}

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

// CreateDispute relies on the partial-unique (contract_id, active)
// index: a concurrent second insert for the same contract hits the
// constraint instead of slipping past an application-level check.
func (r *DefaultDisputeRepository) CreateDispute(dispute *domain.Dispute) error {
	model := mappers.ToGORMDispute(dispute)
	if err := r.db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDisputeAlreadyActive
		}
		return err
	}
	dispute.CreatedAt = model.CreatedAt
	dispute.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultDisputeRepository) GetDisputeByID(id string) (*domain.Dispute, error) {
	var model models.DisputeModel
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) GetActiveDisputeByContractID(contractID string) (*domain.Dispute, error) {
	var model models.DisputeModel
	err := r.db.
		Where("contract_id = ?", contractID).
		Where("status IN ?", activeDisputeStatuses).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) HasActiveDispute(contractID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.DisputeModel{}).
		Where("contract_id = ?", contractID).
		Where("status IN ?", activeDisputeStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultDisputeRepository) FinalizeDispute(dispute *domain.Dispute) error {
	var resolvedAmount *int64
	if dispute.ResolvedAmount != nil {
		centavos := dispute.ResolvedAmount.Centavos()
		resolvedAmount = &centavos
	}
	return r.db.Model(&models.DisputeModel{}).
		Where("id = ?", dispute.ID).
		Updates(map[string]interface{}{
			"status":           string(dispute.Status),
			"active":           nil,
			"resolution_type":  string(dispute.ResolutionType),
			"resolved_amount":  resolvedAmount,
			"resolution_notes": dispute.ResolutionNotes,
			"resolved_by":      dispute.ResolvedBy,
			"resolved_at":      dispute.ResolvedAt,
		}).Error
}

func (r *DefaultDisputeRepository) ListDisputes(filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	query := r.db.Model(&models.DisputeModel{})

	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.RaisedBy != nil {
		query = query.Where("raised_by = ?", *filter.RaisedBy)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var disputeModels []models.DisputeModel
	if err := query.Order("created_at DESC").Find(&disputeModels).Error; err != nil {
		return nil, 0, err
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, total, nil
}

func (r *DefaultDisputeRepository) CountActiveDisputes() (int64, error) {
	var count int64
	err := r.db.Model(&models.DisputeModel{}).
		Where("status IN ?", activeDisputeStatuses).
		Count(&count).Error
	return count, err
}

type DefaultContractRepository struct {
	db *gorm.DB
}

func NewDefaultContractRepository(db *gorm.DB) *DefaultContractRepository {
	return &DefaultContractRepository{db: db}
}

func (r *DefaultContractRepository) GetContractByID(id string) (*domain.Contract, error) {
	var model models.ContractModel
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainContract(&model), nil
}
