package repository

import (
	"context"

	"pocketspace/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Listing, int64, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Listing, int64, error)
	IncrementViews(ctx context.Context, id string) error
}
