package domain

// PoolBalance is the pool-wide balance breakdown. Held and available
// are distinct figures: frozen funds are held but not available.
type PoolBalance struct {
	TotalHeld     Money
	TotalFrozen   Money
	TotalPending  Money
	TotalReleased Money
	Available     Money
}

// MonthlyPoolFlow aggregates settled amounts by type for one month.
type MonthlyPoolFlow struct {
	Year     int
	Month    int
	Deposits Money
	Releases Money
	Refunds  Money
	Fees     Money
}

// PoolStatistics is the admin dashboard rollup.
type PoolStatistics struct {
	Balance          PoolBalance
	TransactionCount int64
	ActiveDisputes   int64
	RevenueFees      Money
}

// ContractPoolSummary is a derived view over a contract's ledger
// entries. It is never stored; it must be recomputable from the ledger
// at any time.
type ContractPoolSummary struct {
	ContractID     string
	TotalDeposited Money
	TotalReleased  Money
	TotalRefunded  Money
	TotalFees      Money
	NetBalance     Money
	FrozenAmount   Money
	FrozenCount    int
	HasDispute     bool
	Transactions   []*PoolTransaction
}
