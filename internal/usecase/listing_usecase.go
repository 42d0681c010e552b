package usecase

import (
	"context"
	"time"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/logger"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
	}
}

type CreateListingInput struct {
	Title       string               `json:"title" validate:"required,min=2,max=120"`
	Description string               `json:"description" validate:"max=4000"`
	Address     string               `json:"address" validate:"required"`
	Latitude    float64              `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64              `json:"longitude" validate:"min=-180,max=180"`
	SizeM2      float64              `json:"size_m2" validate:"required,gt=0"`
	PricePerDay int64                `json:"price_per_day" validate:"required,gt=0"`
	AvailFrom   time.Time            `json:"avail_from" validate:"required"`
	AvailUntil  time.Time            `json:"avail_until" validate:"required"`
	Images      []entity.ListingImage `json:"images" validate:"max=10"`
}

func (uc *ListingUseCase) Create(ctx context.Context, ownerID string, input CreateListingInput) (*entity.Listing, error) {
	if !input.AvailUntil.After(input.AvailFrom) {
		return nil, errors.BadRequest("Availability window must end after it starts", nil)
	}

	listing := &entity.Listing{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		SizeM2:      input.SizeM2,
		PricePerDay: input.PricePerDay,
		AvailFrom:   input.AvailFrom,
		AvailUntil:  input.AvailUntil,
		Images:      input.Images,
		Status:      "active",
	}
	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Get returns a listing and bumps its view counter. The bump is best-effort.
func (uc *ListingUseCase) Get(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.listingRepo.IncrementViews(ctx, id); err != nil {
		logger.Warn("Failed to bump views for listing %s: %v", id, err)
	}
	return listing, nil
}

func (uc *ListingUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.listingRepo.List(ctx, status, limit, offset)
}

func (uc *ListingUseCase) ListMine(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.listingRepo.ListByOwner(ctx, ownerID, limit, offset)
}

type UpdateListingInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	PricePerDay *int64  `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active paused rented"`
}

func (uc *ListingUseCase) Update(ctx context.Context, userID, listingID string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, errors.Forbidden("Only the owner can edit a listing", nil)
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.PricePerDay != nil {
		listing.PricePerDay = *input.PricePerDay
	}
	if input.Status != nil {
		listing.Status = *input.Status
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}
