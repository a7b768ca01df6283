package repository

import (
	"context"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// UserRepository is the persistence contract the use-case layer depends on.
// Lookup methods return (nil, nil) when no row matches; errors are reserved
// for infrastructure failures. Save handles both insert and update.
type UserRepository interface {
	FindByID(ctx context.Context, id valueobject.EntityID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	FindWithPagination(ctx context.Context, criteria UserCriteria, page Pagination, sort Sort) (*PaginatedResult[*entity.User], error)
	FindByRole(ctx context.Context, roleID valueobject.EntityID) ([]*entity.User, error)
	FindByRoles(ctx context.Context, roleIDs []valueobject.EntityID) ([]*entity.User, error)

	Save(ctx context.Context, u *entity.User) error

	SoftDelete(ctx context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error
	Restore(ctx context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error
	PermanentlyDelete(ctx context.Context, ids []valueobject.EntityID) error
}
