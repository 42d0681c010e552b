package entity

import "time"

const (
	FavorStatusOpen      = "open"
	FavorStatusAccepted  = "accepted"
	FavorStatusCompleted = "completed"
	FavorStatusCanceled  = "canceled"
	FavorStatusExpired   = "expired"
)

// FavorRequest is a neighborhood task request ("help me move a couch").
// Accepting an open request creates a favor-bound chat room between the
// requester (owner role) and the accepter (customer role).
type FavorRequest struct {
	ID          string    `json:"id" firestore:"id"`
	RequesterID string    `json:"requester_id" firestore:"requesterId"`
	Title       string    `json:"title" firestore:"title"`
	Detail      string    `json:"detail" firestore:"detail"`
	Reward      string    `json:"reward,omitempty" firestore:"reward,omitempty"`
	Region      string    `json:"region,omitempty" firestore:"region,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	AcceptedBy  string    `json:"accepted_by,omitempty" firestore:"acceptedBy,omitempty"`
	RoomID      string    `json:"room_id,omitempty" firestore:"roomId,omitempty"`
	ExpiresAt   time.Time `json:"expires_at" firestore:"expiresAt"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
