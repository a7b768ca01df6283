package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// CreateUserRequest carries raw input; all validation happens inside Execute
// so the caller gets every field problem in one pass.
type CreateUserRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string

	Phone     *string
	Address   *string
	BirthDate *time.Time
	Gender    *string
	AvatarURL *string
	Language  *string
	TimeZone  *string

	CreatedBy string
}

type CreateUserUseCase struct {
	Users      repo.UserRepository
	Dispatcher EventDispatcher
	Index      UserIndexer
	Logger     *logrus.Logger
}

func NewCreateUserUseCase(users repo.UserRepository, dispatcher EventDispatcher, index UserIndexer, logger *logrus.Logger) *CreateUserUseCase {
	return &CreateUserUseCase{Users: users, Dispatcher: dispatcher, Index: index, Logger: logger}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, req CreateUserRequest) Result[*entity.User] {
	// Presence checks first, then value-object validation; problems are
	// aggregated into one comma-joined message instead of failing fast.
	var errs []string
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "email is required")
	}
	if req.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, "last name is required")
	}
	if len(errs) > 0 {
		return Fail[*entity.User](KindValidation, strings.Join(errs, ", "))
	}

	username, err := valueobject.NewUsername(req.Username)
	if err != nil {
		errs = append(errs, err.Error())
	}
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		errs = append(errs, err.Error())
	}
	password, err := valueobject.NewPassword(req.Password)
	if err != nil {
		errs = append(errs, err.Error())
	}
	profile, err := valueobject.NewUserProfile(req.FirstName, req.LastName, valueobject.ProfileChanges{
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
		Language:  req.Language,
		TimeZone:  req.TimeZone,
	})
	if err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return Fail[*entity.User](KindValidation, strings.Join(errs, ", "))
	}

	existing, err := uc.Users.FindByUsernameOrEmail(ctx, username.String(), email.String())
	if err != nil {
		return Fail[*entity.User](KindInternal, "Failed to create user: "+err.Error())
	}
	if existing != nil {
		if existing.Email().String() == email.String() {
			return Fail[*entity.User](KindConflict, "a user with this email already exists")
		}
		return Fail[*entity.User](KindConflict, "a user with this username already exists")
	}

	createdBy := actorID(req.CreatedBy)
	user, err := entity.NewUser(username, email, profile, password, createdBy)
	if err != nil {
		return Fail[*entity.User](KindValidation, err.Error())
	}

	if err := uc.Users.Save(ctx, user); err != nil {
		return Fail[*entity.User](KindInternal, "Failed to create user: "+err.Error())
	}

	dispatchAndIndex(ctx, uc.Dispatcher, uc.Index, user)
	return OkMsg(user, "User created successfully")
}

// actorID parses an optional acting-user id; malformed values are dropped
// rather than failing the whole operation.
func actorID(raw string) *valueobject.EntityID {
	if raw == "" {
		return nil
	}
	id, err := valueobject.ParseEntityID(raw)
	if err != nil {
		return nil
	}
	return &id
}

// dispatchAndIndex pulls the aggregate's pending events into the dispatcher
// and refreshes the search index. Both are best effort.
func dispatchAndIndex(ctx context.Context, d EventDispatcher, idx UserIndexer, u *entity.User) {
	if d != nil {
		if events := u.PullEvents(); len(events) > 0 {
			d.Dispatch(ctx, events)
		}
	} else {
		u.ClearEvents()
	}
	if idx != nil {
		idx.Index(ctx, u)
	}
}
