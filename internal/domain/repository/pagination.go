package repository

import "time"

// Pagination carries already-validated paging values; the use-case layer is
// responsible for defaults and range checks before handing it down.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// Sort names an allow-listed column and a direction ("asc"/"desc").
type Sort struct {
	Field     string
	Direction string
}

// PaginatedResult is the uniform shape every listing query returns.
type PaginatedResult[T any] struct {
	Data        []T
	Page        int
	Limit       int
	Total       int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

// NewPaginatedResult derives the page bookkeeping from total/page/limit.
func NewPaginatedResult[T any](data []T, total int, p Pagination) *PaginatedResult[T] {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return &PaginatedResult[T]{
		Data:        data,
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1 && total > 0,
	}
}

// UserCriteria is the filter set for user listing queries. Nil pointers mean
// "no filter".
type UserCriteria struct {
	Search          string
	IsActive        *bool
	IsEmailVerified *bool
	RoleSlug        string
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	IncludeDeleted  bool
}
