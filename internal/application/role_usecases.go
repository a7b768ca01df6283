package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// RoleUseCases bundles the role CRUD and assignment operations; roles are a
// small aggregate and do not warrant one struct per operation.
type RoleUseCases struct {
	Roles      repo.RoleRepository
	Users      repo.UserRepository
	Dispatcher EventDispatcher
	Logger     *logrus.Logger
}

func NewRoleUseCases(roles repo.RoleRepository, users repo.UserRepository, dispatcher EventDispatcher, logger *logrus.Logger) *RoleUseCases {
	return &RoleUseCases{Roles: roles, Users: users, Dispatcher: dispatcher, Logger: logger}
}

type CreateRoleRequest struct {
	Name        string
	Slug        string // optional; derived from Name when empty
	Description string
	CreatedBy   string
}

func (uc *RoleUseCases) Create(ctx context.Context, req CreateRoleRequest) Result[*entity.Role] {
	var errs []string
	name, err := valueobject.NewRoleName(req.Name)
	if err != nil {
		errs = append(errs, err.Error())
	}
	var slug valueobject.RoleSlug
	if req.Slug != "" {
		slug, err = valueobject.NewRoleSlug(req.Slug)
	} else if len(errs) == 0 {
		slug, err = valueobject.SlugFromName(name)
	}
	if err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return Fail[*entity.Role](KindValidation, strings.Join(errs, ", "))
	}

	exists, err := uc.Roles.ExistsBySlug(ctx, slug.String())
	if err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to create role: "+err.Error())
	}
	if exists {
		return Fail[*entity.Role](KindConflict, "a role with this slug already exists")
	}

	// Roles created through the API are never system roles; those only come
	// from the seed.
	role, err := entity.NewRole(name, slug, strings.TrimSpace(req.Description), false, actorID(req.CreatedBy))
	if err != nil {
		return Fail[*entity.Role](KindValidation, err.Error())
	}
	if err := uc.Roles.Save(ctx, role); err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to create role: "+err.Error())
	}
	uc.dispatch(ctx, role)
	return OkMsg(role, "Role created successfully")
}

func (uc *RoleUseCases) GetByID(ctx context.Context, rawID string) Result[*entity.Role] {
	role, f := uc.load(ctx, rawID)
	if f != nil {
		return Result[*entity.Role]{failure: f}
	}
	return Ok(role)
}

func (uc *RoleUseCases) List(ctx context.Context, includeInactive bool) Result[[]*entity.Role] {
	roles, err := uc.Roles.FindAll(ctx, includeInactive)
	if err != nil {
		return Fail[[]*entity.Role](KindInternal, "Failed to list roles: "+err.Error())
	}
	return Ok(roles)
}

type UpdateRoleRequest struct {
	RoleID      string
	Name        string
	Description string
	UpdatedBy   string
}

func (uc *RoleUseCases) Update(ctx context.Context, req UpdateRoleRequest) Result[*entity.Role] {
	role, f := uc.load(ctx, req.RoleID)
	if f != nil {
		return Result[*entity.Role]{failure: f}
	}
	name, err := valueobject.NewRoleName(req.Name)
	if err != nil {
		return Fail[*entity.Role](KindValidation, err.Error())
	}
	if err := role.Rename(name, strings.TrimSpace(req.Description), actorID(req.UpdatedBy)); err != nil {
		if errors.Is(err, entity.ErrSystemRoleModify) {
			return Fail[*entity.Role](KindBusinessRule, err.Error())
		}
		return Fail[*entity.Role](KindValidation, err.Error())
	}
	if err := uc.Roles.Save(ctx, role); err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to update role: "+err.Error())
	}
	uc.dispatch(ctx, role)
	return OkMsg(role, "Role updated successfully")
}

func (uc *RoleUseCases) Deactivate(ctx context.Context, rawID, actedBy string) Result[*entity.Role] {
	role, f := uc.load(ctx, rawID)
	if f != nil {
		return Result[*entity.Role]{failure: f}
	}
	if err := role.Deactivate(actorID(actedBy)); err != nil {
		return Fail[*entity.Role](KindBusinessRule, err.Error())
	}
	if err := uc.Roles.Save(ctx, role); err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to deactivate role: "+err.Error())
	}
	uc.dispatch(ctx, role)
	return OkMsg(role, "Role deactivated")
}

func (uc *RoleUseCases) Delete(ctx context.Context, rawID, actedBy string) Result[int] {
	role, f := uc.load(ctx, rawID)
	if f != nil {
		return Result[int]{failure: f}
	}
	if !role.CanBeDeleted() {
		return Fail[int](KindBusinessRule, "system roles cannot be deleted")
	}
	actor := actorID(actedBy)
	if actor == nil {
		return Fail[int](KindValidation, "acting user id is required")
	}
	if err := uc.Roles.SoftDelete(ctx, []valueobject.EntityID{role.ID()}, *actor); err != nil {
		return Fail[int](KindInternal, "Failed to delete role: "+err.Error())
	}
	return OkMsg(1, "Role deleted")
}

type AssignRoleRequest struct {
	UserID string
	RoleID string
}

func (uc *RoleUseCases) AssignToUser(ctx context.Context, req AssignRoleRequest) Result[*entity.Role] {
	role, f := uc.load(ctx, req.RoleID)
	if f != nil {
		return Result[*entity.Role]{failure: f}
	}
	userID, err := valueobject.ParseEntityID(req.UserID)
	if err != nil {
		return Fail[*entity.Role](KindValidation, err.Error())
	}
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to assign role: "+err.Error())
	}
	if user == nil || user.IsDeleted() {
		return Fail[*entity.Role](KindNotFound, "user not found")
	}
	if !role.IsActive() {
		return Fail[*entity.Role](KindBusinessRule, "inactive roles cannot be assigned")
	}
	if err := uc.Roles.AssignToUser(ctx, userID, role.ID()); err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to assign role: "+err.Error())
	}
	if uc.Dispatcher != nil {
		uc.Dispatcher.Dispatch(ctx, []event.DomainEvent{event.NewRoleAssigned(role.ID().String(), userID.String())})
	}
	return OkMsg(role, "Role assigned")
}

func (uc *RoleUseCases) RevokeFromUser(ctx context.Context, req AssignRoleRequest) Result[*entity.Role] {
	role, f := uc.load(ctx, req.RoleID)
	if f != nil {
		return Result[*entity.Role]{failure: f}
	}
	userID, err := valueobject.ParseEntityID(req.UserID)
	if err != nil {
		return Fail[*entity.Role](KindValidation, err.Error())
	}
	if err := uc.Roles.RemoveFromUser(ctx, userID, role.ID()); err != nil {
		return Fail[*entity.Role](KindInternal, "Failed to revoke role: "+err.Error())
	}
	if uc.Dispatcher != nil {
		uc.Dispatcher.Dispatch(ctx, []event.DomainEvent{event.NewRoleRevoked(role.ID().String(), userID.String())})
	}
	return OkMsg(role, "Role revoked")
}

func (uc *RoleUseCases) load(ctx context.Context, rawID string) (*entity.Role, *Failure) {
	id, err := valueobject.ParseEntityID(rawID)
	if err != nil {
		return nil, &Failure{Kind: KindValidation, Message: err.Error()}
	}
	role, err := uc.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, &Failure{Kind: KindInternal, Message: "Failed to load role: " + err.Error()}
	}
	if role == nil || role.IsDeleted() {
		return nil, &Failure{Kind: KindNotFound, Message: "role not found"}
	}
	return role, nil
}

func (uc *RoleUseCases) dispatch(ctx context.Context, role *entity.Role) {
	if uc.Dispatcher == nil {
		role.ClearEvents()
		return
	}
	if events := role.PullEvents(); len(events) > 0 {
		uc.Dispatcher.Dispatch(ctx, events)
	}
}
