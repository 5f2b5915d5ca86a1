package usecase

import (
	"context"
	"time"

	"github.com/pawlink/pool-service/internal/domain"
	"github.com/pawlink/pool-service/internal/infrastructure/logger"
	disputedto "github.com/pawlink/pool-service/internal/usecase/dto/dispute"
)

// DismissDispute closes a dispute without moving funds. Frozen entries
// go back to completed; the dispute row stays as an audit record.
func (disputeUc *DefaultDisputeUsecase) DismissDispute(ctx context.Context, input *disputedto.DismissDisputeInput) (*domain.Dispute, error) {
	dispute, err := disputeUc.disputeRepo.GetDisputeByID(input.DisputeID)
	if err != nil {
		return nil, err
	}

	lock := disputeUc.locks.forContract(dispute.ContractID)
	lock.Lock()
	defer lock.Unlock()

	dispute, err = disputeUc.disputeRepo.GetDisputeByID(input.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.IsTerminal() {
		return nil, domain.ErrDisputeNotActive
	}

	if _, err := disputeUc.ledgerUc.UnfreezeContractFunds(dispute.ContractID); err != nil {
		return nil, err
	}

	now := time.Now()
	dispute.Status = domain.DisputeDismissed
	dispute.ResolutionNotes = input.ResolutionNotes
	dispute.ResolvedBy = input.AdminID
	dispute.ResolvedAt = &now
	if err := disputeUc.disputeRepo.FinalizeDispute(dispute); err != nil {
		return nil, err
	}

	if disputeUc.auditLogger != nil {
		_ = disputeUc.auditLogger.LogDisputeResolved(ctx, logger.DisputeResolvedEvent{
			DisputeID:      dispute.ID,
			ContractID:     dispute.ContractID,
			ResolvedBy:     input.AdminID,
			ResolutionType: string(domain.DisputeDismissed),
			Currency:       "PHP",
			Notes:          input.ResolutionNotes,
		})
	}
	if disputeUc.Metrics != nil {
		disputeUc.Metrics.RecordDisputeResolved("dismissed")
	}
	disputeUc.publishDisputeEvent(dispute)

	return dispute, nil
}
