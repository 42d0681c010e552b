package repository

import (
	"context"
	"time"

	"pocketspace/internal/domain/entity"
)

type FavorRepository interface {
	Create(ctx context.Context, favor *entity.FavorRequest) error
	GetByID(ctx context.Context, id string) (*entity.FavorRequest, error)
	Update(ctx context.Context, favor *entity.FavorRequest) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.FavorRequest, int64, error)
	ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]*entity.FavorRequest, int64, error)

	// Accept transitions an open favor to accepted and records the accepter,
	// failing with a conflict if the favor is no longer open.
	Accept(ctx context.Context, favorID, accepterID, roomID string) (*entity.FavorRequest, error)
	// ExpireOpenBefore marks open favors whose expiry passed before cutoff.
	ExpireOpenBefore(ctx context.Context, cutoff time.Time) (int, error)
}
