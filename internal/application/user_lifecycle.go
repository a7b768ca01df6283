package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// UserLifecycleUseCase groups the small state-transition operations that all
// follow the same load -> mutate -> save -> dispatch shape.
type UserLifecycleUseCase struct {
	Users      repo.UserRepository
	Dispatcher EventDispatcher
	Index      UserIndexer
	Logger     *logrus.Logger
}

func NewUserLifecycleUseCase(users repo.UserRepository, dispatcher EventDispatcher, index UserIndexer, logger *logrus.Logger) *UserLifecycleUseCase {
	return &UserLifecycleUseCase{Users: users, Dispatcher: dispatcher, Index: index, Logger: logger}
}

func (uc *UserLifecycleUseCase) load(ctx context.Context, rawID string) (*entity.User, *Failure) {
	id, err := valueobject.ParseEntityID(rawID)
	if err != nil {
		return nil, &Failure{Kind: KindValidation, Message: err.Error()}
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, &Failure{Kind: KindInternal, Message: "Failed to load user: " + err.Error()}
	}
	if u == nil || u.IsDeleted() {
		return nil, &Failure{Kind: KindNotFound, Message: "user not found"}
	}
	return u, nil
}

func (uc *UserLifecycleUseCase) save(ctx context.Context, u *entity.User, op string) *Failure {
	if err := uc.Users.Save(ctx, u); err != nil {
		return &Failure{Kind: KindInternal, Message: "Failed to " + op + ": " + err.Error()}
	}
	dispatchAndIndex(ctx, uc.Dispatcher, uc.Index, u)
	return nil
}

func (uc *UserLifecycleUseCase) Activate(ctx context.Context, rawID, actedBy string) Result[*entity.User] {
	u, f := uc.load(ctx, rawID)
	if f != nil {
		return Result[*entity.User]{failure: f}
	}
	u.Activate(actorID(actedBy))
	if f := uc.save(ctx, u, "activate user"); f != nil {
		return Result[*entity.User]{failure: f}
	}
	return OkMsg(u, "User activated")
}

func (uc *UserLifecycleUseCase) Deactivate(ctx context.Context, rawID, actedBy string) Result[*entity.User] {
	u, f := uc.load(ctx, rawID)
	if f != nil {
		return Result[*entity.User]{failure: f}
	}
	u.Deactivate(actorID(actedBy))
	if f := uc.save(ctx, u, "deactivate user"); f != nil {
		return Result[*entity.User]{failure: f}
	}
	return OkMsg(u, "User deactivated")
}

type ChangePasswordRequest struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	ActedBy         string
}

// ChangePassword verifies the current password before accepting the new one.
func (uc *UserLifecycleUseCase) ChangePassword(ctx context.Context, req ChangePasswordRequest) Result[*entity.User] {
	u, f := uc.load(ctx, req.UserID)
	if f != nil {
		return Result[*entity.User]{failure: f}
	}
	if !u.Password().Compare(req.CurrentPassword) {
		return Fail[*entity.User](KindUnauthorized, "current password is incorrect")
	}
	password, err := valueobject.NewPassword(req.NewPassword)
	if err != nil {
		return Fail[*entity.User](KindValidation, err.Error())
	}
	if err := u.ChangePassword(password, actorID(req.ActedBy)); err != nil {
		return Fail[*entity.User](KindValidation, err.Error())
	}
	if f := uc.save(ctx, u, "change password"); f != nil {
		return Result[*entity.User]{failure: f}
	}
	return OkMsg(u, "Password changed")
}

// SoftDelete marks the given users deleted and drops them from the search
// index. IDs must all parse; one bad id fails the whole batch.
func (uc *UserLifecycleUseCase) SoftDelete(ctx context.Context, rawIDs []string, actedBy string) Result[int] {
	ids, f := parseIDs(rawIDs)
	if f != nil {
		return Result[int]{failure: f}
	}
	actor := actorID(actedBy)
	if actor == nil {
		return Fail[int](KindValidation, "acting user id is required")
	}
	if err := uc.Users.SoftDelete(ctx, ids, *actor); err != nil {
		return Fail[int](KindInternal, "Failed to delete users: "+err.Error())
	}
	if uc.Index != nil {
		uc.Index.Remove(ctx, rawIDs)
	}
	return OkMsg(len(ids), "Users deleted")
}

func (uc *UserLifecycleUseCase) Restore(ctx context.Context, rawIDs []string, actedBy string) Result[int] {
	ids, f := parseIDs(rawIDs)
	if f != nil {
		return Result[int]{failure: f}
	}
	actor := actorID(actedBy)
	if actor == nil {
		return Fail[int](KindValidation, "acting user id is required")
	}
	if err := uc.Users.Restore(ctx, ids, *actor); err != nil {
		return Fail[int](KindInternal, "Failed to restore users: "+err.Error())
	}
	return OkMsg(len(ids), "Users restored")
}

func (uc *UserLifecycleUseCase) PermanentlyDelete(ctx context.Context, rawIDs []string) Result[int] {
	ids, f := parseIDs(rawIDs)
	if f != nil {
		return Result[int]{failure: f}
	}
	if err := uc.Users.PermanentlyDelete(ctx, ids); err != nil {
		return Fail[int](KindInternal, "Failed to permanently delete users: "+err.Error())
	}
	if uc.Index != nil {
		uc.Index.Remove(ctx, rawIDs)
	}
	return OkMsg(len(ids), "Users permanently deleted")
}

func parseIDs(raw []string) ([]valueobject.EntityID, *Failure) {
	if len(raw) == 0 {
		return nil, &Failure{Kind: KindValidation, Message: "at least one id is required"}
	}
	ids := make([]valueobject.EntityID, 0, len(raw))
	for _, r := range raw {
		id, err := valueobject.ParseEntityID(r)
		if err != nil {
			return nil, &Failure{Kind: KindValidation, Message: err.Error()}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
