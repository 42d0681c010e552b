package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/pkg/errors"
)

type firestoreFavorRepository struct {
	client *firestore.Client
}

func NewFirestoreFavorRepository(client *firestore.Client) repository.FavorRepository {
	return &firestoreFavorRepository{
		client: client,
	}
}

func (r *firestoreFavorRepository) Create(ctx context.Context, favor *entity.FavorRequest) error {
	if favor.ID == "" {
		favor.ID = uuid.New().String()
	}

	now := time.Now()
	favor.CreatedAt = now
	favor.UpdatedAt = now
	if favor.Status == "" {
		favor.Status = entity.FavorStatusOpen
	}

	_, err := r.client.Collection("favorRequests").Doc(favor.ID).Set(ctx, favor)
	if err != nil {
		return errors.Internal("Failed to create favor request", err)
	}
	return nil
}

func (r *firestoreFavorRepository) GetByID(ctx context.Context, id string) (*entity.FavorRequest, error) {
	doc, err := r.client.Collection("favorRequests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Favor request", err)
		}
		return nil, errors.Internal("Failed to get favor request", err)
	}

	var favor entity.FavorRequest
	if err := doc.DataTo(&favor); err != nil {
		return nil, errors.Internal("Failed to parse favor request data", err)
	}
	return &favor, nil
}

func (r *firestoreFavorRepository) Update(ctx context.Context, favor *entity.FavorRequest) error {
	favor.UpdatedAt = time.Now()

	_, err := r.client.Collection("favorRequests").Doc(favor.ID).Set(ctx, favor)
	if err != nil {
		return errors.Internal("Failed to update favor request", err)
	}
	return nil
}

func (r *firestoreFavorRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.FavorRequest, int64, error) {
	query := r.client.Collection("favorRequests").Query
	if status != "" {
		query = query.Where("status", "==", status)
	}
	query = query.OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreFavorRepository) ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]*entity.FavorRequest, int64, error) {
	query := r.client.Collection("favorRequests").Where("requesterId", "==", requesterID).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreFavorRepository) collect(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.FavorRequest, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count favor requests", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var favors []*entity.FavorRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate favor requests", err)
		}

		var favor entity.FavorRequest
		if err := doc.DataTo(&favor); err != nil {
			return nil, 0, errors.Internal("Failed to parse favor request data", err)
		}
		favors = append(favors, &favor)
	}
	return favors, total, nil
}

// Accept transitions an open favor to accepted inside a transaction; two
// concurrent accepters cannot both win.
func (r *firestoreFavorRepository) Accept(ctx context.Context, favorID, accepterID, roomID string) (*entity.FavorRequest, error) {
	ref := r.client.Collection("favorRequests").Doc(favorID)

	var accepted entity.FavorRequest
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var favor entity.FavorRequest
		if err := doc.DataTo(&favor); err != nil {
			return err
		}

		if favor.Status != entity.FavorStatusOpen {
			return errors.Conflict("This favor has already been taken")
		}
		if favor.RequesterID == accepterID {
			return errors.BadRequest("You cannot accept your own favor request", nil)
		}

		favor.Status = entity.FavorStatusAccepted
		favor.AcceptedBy = accepterID
		favor.RoomID = roomID
		favor.UpdatedAt = time.Now()
		accepted = favor

		return tx.Set(ref, &favor)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Favor request", err)
		}
		return nil, errors.Internal("Failed to accept favor request", err)
	}
	return &accepted, nil
}

// ExpireOpenBefore flips open favors whose expiry passed to expired and
// returns how many it touched.
func (r *firestoreFavorRepository) ExpireOpenBefore(ctx context.Context, cutoff time.Time) (int, error) {
	iter := r.client.Collection("favorRequests").
		Where("status", "==", entity.FavorStatusOpen).
		Where("expiresAt", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	expired := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return expired, errors.Internal("Failed to iterate expiring favors", err)
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: entity.FavorStatusExpired},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
		if err != nil {
			return expired, errors.Internal("Failed to expire favor request", err)
		}
		expired++
	}
	return expired, nil
}
