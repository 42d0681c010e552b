package usecase

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/internal/infrastructure/ratelimit"
	"pocketspace/internal/infrastructure/storage"
	"pocketspace/pkg/errors"
)

type FileUseCase struct {
	storage     *storage.CloudStorageClient
	metaRepo    repository.FileMetadataRepository
	rateLimiter *ratelimit.RateLimiter
	maxBytes    int64
}

func NewFileUseCase(storageClient *storage.CloudStorageClient, metaRepo repository.FileMetadataRepository, maxBytes int64) *FileUseCase {
	return &FileUseCase{
		storage:     storageClient,
		metaRepo:    metaRepo,
		rateLimiter: ratelimit.NewRateLimiter(),
		maxBytes:    maxBytes,
	}
}

type UploadImageInput struct {
	// Base64 is the image payload, with or without a data: URL prefix.
	Base64 string `json:"base64" validate:"required"`
	// Path is the destination object path; one is generated when absent.
	Path        string `json:"path,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type UploadImageResult struct {
	Path string `json:"path"`
}

// UploadImage decodes a base64 payload and stores it at the requested path.
// The stored object path is the durable reference; ResolveURL derives the URL.
func (uc *FileUseCase) UploadImage(ctx context.Context, userID string, input UploadImageInput) (*UploadImageResult, error) {
	allowed, _ := uc.rateLimiter.Allow(userID, "upload_image")
	if !allowed {
		return nil, errors.TooManyRequests("Too many uploads. Please try again later")
	}

	payload := input.Base64
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.BadRequest("Image payload is not valid base64", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, errors.BadRequest("Image exceeds the upload size limit", nil)
	}

	// The declared content type is advisory; the sniffed one is what gets
	// stored and enforced.
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return nil, errors.BadRequest("Only JPEG, PNG, GIF and WebP images are accepted", nil)
	}

	path, err := cleanObjectPath(input.Path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = storage.GeneratePath(contentType)
	}

	path, err = uc.storage.UploadObject(ctx, path, data, contentType)
	if err != nil {
		return nil, errors.Internal("Failed to store image", err)
	}

	metadata := &entity.FileMetadata{
		Path:        path,
		URL:         uc.storage.DownloadURL(path),
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedBy:  userID,
	}
	if err := uc.metaRepo.Create(ctx, metadata); err != nil {
		return nil, err
	}

	return &UploadImageResult{Path: path}, nil
}

// cleanObjectPath rejects traversal and absolute paths; object names are
// always bucket-relative.
func cleanObjectPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
		return "", errors.BadRequest("Invalid object path", nil)
	}
	return p, nil
}

// ResolveURL maps a stored object path back to a client-usable URL.
func (uc *FileUseCase) ResolveURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.BadRequest("Object path is required", nil)
	}
	if _, err := uc.metaRepo.GetByPath(ctx, path); err != nil {
		return "", err
	}
	return uc.storage.DownloadURL(path), nil
}
