package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "open"
	DisputeUnderReview DisputeStatus = "under_review"
	DisputeResolved    DisputeStatus = "resolved"
	DisputeDismissed   DisputeStatus = "dismissed"
)

type ResolutionType string

const (
	ResolutionRefundFull    ResolutionType = "refund_full"
	ResolutionRefundPartial ResolutionType = "refund_partial"
	ResolutionReleaseFunds  ResolutionType = "release_funds"
	ResolutionForfeit       ResolutionType = "forfeit"
)

func IsKnownResolutionType(t ResolutionType) bool {
	switch t {
	case ResolutionRefundFull, ResolutionRefundPartial, ResolutionReleaseFunds, ResolutionForfeit:
		return true
	}
	return false
}

// Dispute ties to exactly one contract. It is never deleted; terminal
// disputes persist as audit records.
type Dispute struct {
	ID              string
	ContractID      string
	RaisedBy        string
	Reason          string
	Status          DisputeStatus
	ResolutionType  ResolutionType
	ResolvedAmount  *Money
	ResolutionNotes string
	ResolvedBy      string
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (d *Dispute) IsActive() bool {
	return d.Status == DisputeOpen || d.Status == DisputeUnderReview
}

func (d *Dispute) IsTerminal() bool {
	return d.Status == DisputeResolved || d.Status == DisputeDismissed
}

type DisputeFilter struct {
	ContractID *string
	RaisedBy   *string
	Status     *DisputeStatus
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type DisputeRepository interface {
	// CreateDispute inserts a new open dispute. The insert is guarded:
	// it fails with ErrDisputeAlreadyActive when an active dispute
	// already exists for the contract.
	CreateDispute(dispute *Dispute) error
	GetDisputeByID(id string) (*Dispute, error)
	GetActiveDisputeByContractID(contractID string) (*Dispute, error)
	HasActiveDispute(contractID string) (bool, error)
	// FinalizeDispute transitions a dispute to a terminal status and
	// records the resolution fields.
	FinalizeDispute(dispute *Dispute) error
	ListDisputes(filter DisputeFilter) ([]*Dispute, int64, error)
	CountActiveDisputes() (int64, error)
}
