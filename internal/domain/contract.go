package domain

import "time"

type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractAccepted  ContractStatus = "accepted"
	ContractFulfilled ContractStatus = "fulfilled"
	ContractCancelled ContractStatus = "cancelled"
)

// Contract is a slim reference to a breeding contract. The contract
// lifecycle is owned by the contract service; the pool reads it for
// dispute eligibility and fund routing.
type Contract struct {
	ID                     string
	Status                 ContractStatus
	OwnerUserID            string
	CounterpartyUserID     string
	ShooterUserID          string
	CancellationFeePercent float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CounterpartyOf returns the other contract party for a given user.
// The shooter is never a counterparty for fund routing.
func (c *Contract) CounterpartyOf(userID string) string {
	if userID == c.OwnerUserID {
		return c.CounterpartyUserID
	}
	return c.OwnerUserID
}

type ContractRepository interface {
	GetContractByID(id string) (*Contract, error)
}
