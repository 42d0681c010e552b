package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = "active"
	}

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

// Upsert creates the account on first sign-in; on later sign-ins it refreshes
// profile fields from the provider without clobbering app-managed ones.
func (r *firestoreUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	ref := r.client.Collection("users").Doc(user.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				now := time.Now()
				user.CreatedAt = now
				user.UpdatedAt = now
				user.Status = "active"
				return tx.Set(ref, user)
			}
			return err
		}

		var existing entity.User
		if err := doc.DataTo(&existing); err != nil {
			return err
		}

		existing.Email = user.Email
		if user.Nickname != "" {
			existing.Nickname = user.Nickname
		}
		if user.PhotoURL != "" {
			existing.PhotoURL = user.PhotoURL
		}
		existing.UpdatedAt = time.Now()
		*user = existing

		return tx.Set(ref, &existing)
	})
	if err != nil {
		return errors.Internal("Failed to upsert user", err)
	}
	return nil
}
