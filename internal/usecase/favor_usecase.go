package usecase

import (
	"context"
	"time"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/internal/infrastructure/ratelimit"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/logger"
)

type FavorUseCase struct {
	favorRepo   repository.FavorRepository
	chatUseCase *ChatUseCase
	rateLimiter *ratelimit.RateLimiter
	ttl         time.Duration
}

func NewFavorUseCase(favorRepo repository.FavorRepository, chatUseCase *ChatUseCase, ttl time.Duration) *FavorUseCase {
	return &FavorUseCase{
		favorRepo:   favorRepo,
		chatUseCase: chatUseCase,
		rateLimiter: ratelimit.NewRateLimiter(),
		ttl:         ttl,
	}
}

type CreateFavorInput struct {
	Title  string `json:"title" validate:"required,min=2,max=120"`
	Detail string `json:"detail" validate:"max=2000"`
	Reward string `json:"reward,omitempty" validate:"max=200"`
	Region string `json:"region,omitempty" validate:"max=100"`
}

func (uc *FavorUseCase) Create(ctx context.Context, requesterID string, input CreateFavorInput) (*entity.FavorRequest, error) {
	allowed, _ := uc.rateLimiter.Allow(requesterID, "create_favor")
	if !allowed {
		return nil, errors.TooManyRequests("Too many favor posts. Please try again later")
	}

	favor := &entity.FavorRequest{
		RequesterID: requesterID,
		Title:       input.Title,
		Detail:      input.Detail,
		Reward:      input.Reward,
		Region:      input.Region,
		Status:      entity.FavorStatusOpen,
		ExpiresAt:   time.Now().Add(uc.ttl),
	}
	if err := uc.favorRepo.Create(ctx, favor); err != nil {
		return nil, err
	}
	return favor, nil
}

func (uc *FavorUseCase) Get(ctx context.Context, id string) (*entity.FavorRequest, error) {
	return uc.favorRepo.GetByID(ctx, id)
}

func (uc *FavorUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.FavorRequest, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.favorRepo.List(ctx, status, limit, offset)
}

func (uc *FavorUseCase) ListMine(ctx context.Context, requesterID string, limit, offset int) ([]*entity.FavorRequest, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.favorRepo.ListByRequester(ctx, requesterID, limit, offset)
}

type AcceptFavorResult struct {
	Favor *entity.FavorRequest `json:"favor"`
	Room  *entity.ChatRoom     `json:"room"`
}

// Accept claims an open favor for the caller and opens the favor-bound chat
// room between requester and accepter. The room is created first so the favor
// record can point at it; if the claim then loses a race the unreferenced
// room is left behind and hidden from both lists.
func (uc *FavorUseCase) Accept(ctx context.Context, accepterID, favorID string) (*AcceptFavorResult, error) {
	favor, err := uc.favorRepo.GetByID(ctx, favorID)
	if err != nil {
		return nil, err
	}
	if favor.Status != entity.FavorStatusOpen {
		return nil, errors.Conflict("This favor has already been taken")
	}
	if favor.RequesterID == accepterID {
		return nil, errors.BadRequest("You cannot accept your own favor request", nil)
	}

	room, err := uc.chatUseCase.CreateFavorRoom(ctx, favor, accepterID)
	if err != nil {
		return nil, err
	}

	accepted, err := uc.favorRepo.Accept(ctx, favorID, accepterID, room.ID)
	if err != nil {
		return nil, err
	}

	return &AcceptFavorResult{
		Favor: accepted,
		Room:  room,
	}, nil
}

type FavorStatusInput struct {
	Status string `json:"status" validate:"required,oneof=completed canceled"`
}

// SetStatus lets the requester close out their own favor.
func (uc *FavorUseCase) SetStatus(ctx context.Context, userID, favorID, status string) (*entity.FavorRequest, error) {
	favor, err := uc.favorRepo.GetByID(ctx, favorID)
	if err != nil {
		return nil, err
	}
	if favor.RequesterID != userID {
		return nil, errors.Forbidden("Only the requester can change a favor's status", nil)
	}
	if favor.Status == entity.FavorStatusExpired {
		return nil, errors.Conflict("This favor has expired")
	}

	favor.Status = status
	if err := uc.favorRepo.Update(ctx, favor); err != nil {
		return nil, err
	}
	return favor, nil
}

// StartExpirySweep expires stale open favors on a fixed period until ctx is
// canceled.
func (uc *FavorUseCase) StartExpirySweep(ctx context.Context, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				count, err := uc.favorRepo.ExpireOpenBefore(ctx, time.Now())
				if err != nil {
					logger.Warn("Favor expiry sweep failed: %v", err)
					continue
				}
				if count > 0 {
					logger.Info("Expired %d stale favor requests", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
