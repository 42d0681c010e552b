package repository

import (
	"context"

	"pocketspace/internal/domain/entity"
)

type FileMetadataRepository interface {
	Create(ctx context.Context, metadata *entity.FileMetadata) error
	GetByID(ctx context.Context, id string) (*entity.FileMetadata, error)
	GetByPath(ctx context.Context, path string) (*entity.FileMetadata, error)
}
