package application

import (
	"context"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

type GetUserByIDUseCase struct {
	Users repo.UserRepository
}

func NewGetUserByIDUseCase(users repo.UserRepository) *GetUserByIDUseCase {
	return &GetUserByIDUseCase{Users: users}
}

func (uc *GetUserByIDUseCase) Execute(ctx context.Context, rawID string) Result[*entity.User] {
	id, err := valueobject.ParseEntityID(rawID)
	if err != nil {
		return Fail[*entity.User](KindValidation, err.Error())
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return Fail[*entity.User](KindInternal, "Failed to get user: "+err.Error())
	}
	if u == nil || u.IsDeleted() {
		return Fail[*entity.User](KindNotFound, "user not found")
	}
	return Ok(u)
}
