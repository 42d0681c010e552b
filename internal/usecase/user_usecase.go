package usecase

import (
	"context"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	Nickname  *string `json:"nickname,omitempty" validate:"omitempty,min=2,max=30"`
	PhotoURL  *string `json:"photo_url,omitempty" validate:"omitempty,url"`
	Region    *string `json:"region,omitempty" validate:"omitempty,max=100"`
	PushToken *string `json:"push_token,omitempty"`
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		user.Nickname = *input.Nickname
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}
	if input.Region != nil {
		user.Region = *input.Region
	}
	if input.PushToken != nil {
		user.PushToken = *input.PushToken
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
