package application

import (
	"context"
	"strings"
	"time"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// sortFields is the allow-list of sortable columns; anything else is a
// validation failure, never silently ignored.
var sortFields = map[string]struct{}{
	"username":    {},
	"email":       {},
	"firstName":   {},
	"lastName":    {},
	"createdAt":   {},
	"updatedAt":   {},
	"lastLoginAt": {},
}

type ListUsersRequest struct {
	Page  int
	Limit int

	Search          string
	IsActive        *bool
	IsEmailVerified *bool
	RoleSlug        string
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	IncludeDeleted  bool

	SortBy        string
	SortDirection string
}

type GetUsersWithPaginationUseCase struct {
	Users repo.UserRepository
}

func NewGetUsersWithPaginationUseCase(users repo.UserRepository) *GetUsersWithPaginationUseCase {
	return &GetUsersWithPaginationUseCase{Users: users}
}

func (uc *GetUsersWithPaginationUseCase) Execute(ctx context.Context, req ListUsersRequest) Result[*repo.PaginatedResult[*entity.User]] {
	type result = *repo.PaginatedResult[*entity.User]

	page := req.Page
	if page == 0 {
		page = defaultPage
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	// An oversized limit is clamped; a non-positive one is rejected.
	if limit > maxLimit {
		limit = maxLimit
	}

	var errs []string
	if page < 1 {
		errs = append(errs, "page must be at least 1")
	}
	if limit < 1 {
		errs = append(errs, "limit must be between 1 and 100")
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if _, ok := sortFields[sortBy]; !ok {
		errs = append(errs, "sort field must be one of: username, email, firstName, lastName, createdAt, updatedAt, lastLoginAt")
	}
	dir := strings.ToLower(req.SortDirection)
	if dir == "" {
		dir = "desc"
	}
	if dir != "asc" && dir != "desc" {
		errs = append(errs, "sort direction must be asc or desc")
	}
	if len(errs) > 0 {
		return Fail[result](KindValidation, strings.Join(errs, ", "))
	}

	criteria := repo.UserCriteria{
		Search:          strings.TrimSpace(req.Search),
		IsActive:        req.IsActive,
		IsEmailVerified: req.IsEmailVerified,
		RoleSlug:        req.RoleSlug,
		CreatedAfter:    req.CreatedAfter,
		CreatedBefore:   req.CreatedBefore,
		IncludeDeleted:  req.IncludeDeleted,
	}
	page_, err := uc.Users.FindWithPagination(ctx,
		criteria,
		repo.Pagination{Page: page, Limit: limit},
		repo.Sort{Field: sortBy, Direction: dir},
	)
	if err != nil {
		return Fail[result](KindInternal, "Failed to list users: "+err.Error())
	}
	return Ok(page_)
}
