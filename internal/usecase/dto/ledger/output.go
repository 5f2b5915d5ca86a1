package ledgerdto

import "github.com/pawlink/pool-service/internal/domain"

type Pagination struct {
	CurrentPage  int64
	TotalPages   int64
	TotalItems   int64
	ItemsPerPage int64
}

type ListTransactionsOutput struct {
	Transactions []*domain.PoolTransaction
	Pagination   Pagination
}

func NewPagination(page, limit int, total int64) Pagination {
	if limit <= 0 {
		limit = int(total)
		if limit == 0 {
			limit = 1
		}
	}
	if page <= 0 {
		page = 1
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{
		CurrentPage:  int64(page),
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: int64(limit),
	}
}
