package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// UpdateUserRequest updates the mutable profile slice of a user. Username and
// email are immutable and deliberately absent here.
type UpdateUserRequest struct {
	UserID string

	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	BirthDate *time.Time
	Gender    *string
	AvatarURL *string
	Language  *string
	TimeZone  *string

	UpdatedBy string
}

func (r UpdateUserRequest) empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Phone == nil &&
		r.Address == nil && r.BirthDate == nil && r.Gender == nil &&
		r.AvatarURL == nil && r.Language == nil && r.TimeZone == nil
}

type UpdateUserUseCase struct {
	Users      repo.UserRepository
	Dispatcher EventDispatcher
	Index      UserIndexer
	Logger     *logrus.Logger
}

func NewUpdateUserUseCase(users repo.UserRepository, dispatcher EventDispatcher, index UserIndexer, logger *logrus.Logger) *UpdateUserUseCase {
	return &UpdateUserUseCase{Users: users, Dispatcher: dispatcher, Index: index, Logger: logger}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, req UpdateUserRequest) Result[*entity.User] {
	id, err := valueobject.ParseEntityID(req.UserID)
	if err != nil {
		return Fail[*entity.User](KindValidation, err.Error())
	}
	if req.empty() {
		return Fail[*entity.User](KindValidation, "At least one field must be provided for update")
	}

	user, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return Fail[*entity.User](KindInternal, "Failed to update user: "+err.Error())
	}
	if user == nil || user.IsDeleted() {
		return Fail[*entity.User](KindNotFound, "user not found")
	}

	profile, err := user.Profile().Update(valueobject.ProfileChanges{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
		Language:  req.Language,
		TimeZone:  req.TimeZone,
	})
	if err != nil {
		return Fail[*entity.User](KindValidation, err.Error())
	}

	user.UpdateProfile(profile, actorID(req.UpdatedBy))
	if err := uc.Users.Save(ctx, user); err != nil {
		return Fail[*entity.User](KindInternal, "Failed to update user: "+err.Error())
	}

	dispatchAndIndex(ctx, uc.Dispatcher, uc.Index, user)
	return OkMsg(user, "User updated successfully")
}
