package disputedto

import "github.com/pawlink/pool-service/internal/domain"

type Pagination struct {
	CurrentPage  int64
	TotalPages   int64
	TotalItems   int64
	ItemsPerPage int64
}

type ListDisputesOutput struct {
	Disputes   []*domain.Dispute
	Pagination Pagination
}
