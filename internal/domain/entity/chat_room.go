package entity

import (
	"sort"
	"strings"
	"time"
)

// RoomRole is the side a user occupies in a chat room. Listing rooms: the
// owner is the listing's host, the customer is the interested renter. Favor
// rooms: the owner is the favor's requester, the customer is the accepter.
type RoomRole string

const (
	RoleOwner    RoomRole = "owner"
	RoleCustomer RoomRole = "customer"
)

// RoomKind classifies a room by what it is bound to.
type RoomKind string

const (
	RoomKindListing RoomKind = "listing"
	RoomKindFavor   RoomKind = "favor"
	RoomKindUnknown RoomKind = "unknown"
)

// ChatRoom is a one-to-one conversation bound to either a listing or a favor
// request. Each side carries its own unread counter and its own "left" flag;
// leaving hides the room for that side only, the record is never deleted.
type ChatRoom struct {
	ID            string   `json:"id" firestore:"id"`
	OwnerID       string   `json:"owner_id" firestore:"ownerId"`
	CustomerID    string   `json:"customer_id" firestore:"customerId"`
	ListingID     string   `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	RequestID     string   `json:"request_id,omitempty" firestore:"requestId,omitempty"`
	Title         string   `json:"title" firestore:"title"`
	PreviewImages []string `json:"preview_images,omitempty" firestore:"previewImages,omitempty"`

	LastMessageText string    `json:"last_message_text,omitempty" firestore:"lastMessageText,omitempty"`
	LastMessageAt   time.Time `json:"last_message_at" firestore:"lastMessageAt"`

	UnreadByOwner    int64 `json:"unread_by_owner" firestore:"unreadByOwner"`
	UnreadByCustomer int64 `json:"unread_by_customer" firestore:"unreadByCustomer"`

	LeftByOwner    bool `json:"left_by_owner" firestore:"leftByOwner"`
	LeftByCustomer bool `json:"left_by_customer" firestore:"leftByCustomer"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ListingRoomID derives the deterministic room id for a listing conversation.
// The participant pair is sorted before joining, so either party resolving the
// room for the same listing lands on the same id.
func ListingRoomID(userA, userB, listingID string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_") + "_" + listingID
}

func (r *ChatRoom) Kind() RoomKind {
	switch {
	case r.ListingID != "":
		return RoomKindListing
	case r.RequestID != "":
		return RoomKindFavor
	default:
		return RoomKindUnknown
	}
}

// RoleOf returns the role userID occupies in the room, or false if userID is
// not a participant. OwnerID is checked first; a user chatting with themselves
// is not a supported shape.
func (r *ChatRoom) RoleOf(userID string) (RoomRole, bool) {
	switch userID {
	case r.OwnerID:
		return RoleOwner, true
	case r.CustomerID:
		return RoleCustomer, true
	default:
		return "", false
	}
}

// UnreadFor returns the unread count belonging to userID's role in this room;
// zero for non-participants.
func (r *ChatRoom) UnreadFor(userID string) int64 {
	role, ok := r.RoleOf(userID)
	if !ok {
		return 0
	}
	if role == RoleOwner {
		return r.UnreadByOwner
	}
	return r.UnreadByCustomer
}

// RecipientRole returns the role whose unread counter a message from senderID
// must increment: always the other party's.
func (r *ChatRoom) RecipientRole(senderID string) RoomRole {
	if senderID == r.CustomerID {
		return RoleOwner
	}
	return RoleCustomer
}

// LeftBy reports whether userID has hidden this room.
func (r *ChatRoom) LeftBy(userID string) bool {
	role, ok := r.RoleOf(userID)
	if !ok {
		return false
	}
	if role == RoleOwner {
		return r.LeftByOwner
	}
	return r.LeftByCustomer
}
