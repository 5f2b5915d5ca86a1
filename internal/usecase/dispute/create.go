package usecase

import (
	"context"
	"log/slog"

	"github.com/jaevor/go-nanoid"
	"github.com/pawlink/pool-service/internal/domain"
	publisher "github.com/pawlink/pool-service/internal/infrastructure/kafka"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
)

// CreateDispute files a dispute and freezes the contract's pooled
// funds. At most one dispute may be active per contract; the guarded
// insert under the contract lock and the DB uniqueness constraint both
// enforce it.
func (disputeUc *DefaultDisputeUsecase) CreateDispute(ctx context.Context, input *disputedto.CreateDisputeInput) (*domain.Dispute, error) {
	contract, err := disputeUc.contractRepo.GetContractByID(input.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != domain.ContractAccepted && contract.Status != domain.ContractFulfilled {
		return nil, domain.ErrContractNotDisputable
	}

	lock := disputeUc.locks.forContract(input.ContractID)
	lock.Lock()
	defer lock.Unlock()

	active, err := disputeUc.disputeRepo.HasActiveDispute(input.ContractID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.ErrDisputeAlreadyActive
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	dispute := &domain.Dispute{
		ID:         idGenerator(),
		ContractID: input.ContractID,
		RaisedBy:   input.RaisedBy,
		Reason:     input.Reason,
		Status:     domain.DisputeOpen,
	}
	if err := disputeUc.disputeRepo.CreateDispute(dispute); err != nil {
		return nil, err
	}

	frozen, err := disputeUc.ledgerUc.FreezeContractFunds(input.ContractID)
	if err != nil {
		return nil, err
	}
	slog.Info("dispute filed, contract funds frozen",
		"dispute_id", dispute.ID,
		"contract_id", input.ContractID,
		"frozen_entries", frozen)

	if disputeUc.Metrics != nil {
		disputeUc.Metrics.RecordDisputeOpened("PHP")
	}
	disputeUc.publishDisputeEvent(dispute)

	return dispute, nil
}

func (disputeUc *DefaultDisputeUsecase) publishDisputeEvent(dispute *domain.Dispute) {
	if disputeUc.kafkaPublisher == nil {
		return
	}
	event := publisher.DisputeEvent{
		DisputeID:      dispute.ID,
		ContractID:     dispute.ContractID,
		RaisedBy:       dispute.RaisedBy,
		Reason:         dispute.Reason,
		Status:         string(dispute.Status),
		ResolutionType: string(dispute.ResolutionType),
	}
	if dispute.ResolvedAmount != nil {
		event.ResolvedAmount = dispute.ResolvedAmount.String()
	}
	go func(e publisher.DisputeEvent) {
		if err := disputeUc.kafkaPublisher.PublishDispute(DisputeEventsTopic, e); err != nil {
			slog.Error("failed to publish kafka dispute event", "dispute_id", e.DisputeID, "error", err.Error())
		}
	}(event)
}
