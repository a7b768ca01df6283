package repository

import (
	"context"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// RoleRepository persists roles and the user_roles join. The join is plain
// repository state, not a domain entity.
type RoleRepository interface {
	FindByID(ctx context.Context, id valueobject.EntityID) (*entity.Role, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Role, error)
	FindAll(ctx context.Context, includeInactive bool) ([]*entity.Role, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	Save(ctx context.Context, r *entity.Role) error

	SoftDelete(ctx context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error
	Restore(ctx context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error
	PermanentlyDelete(ctx context.Context, ids []valueobject.EntityID) error

	AssignToUser(ctx context.Context, userID, roleID valueobject.EntityID) error
	RemoveFromUser(ctx context.Context, userID, roleID valueobject.EntityID) error
	FindForUser(ctx context.Context, userID valueobject.EntityID) ([]*entity.Role, error)
}
