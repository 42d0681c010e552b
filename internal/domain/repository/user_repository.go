package repository

import (
	"context"

	"pocketspace/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// Upsert creates the user document on first sign-in and refreshes profile
	// fields on subsequent sign-ins.
	Upsert(ctx context.Context, user *entity.User) error
}
