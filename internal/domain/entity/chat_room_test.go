package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingRoomID(t *testing.T) {
	// Both participants must derive the same id regardless of argument order.
	a := ListingRoomID("user-b", "user-a", "listing-1")
	b := ListingRoomID("user-a", "user-b", "listing-1")
	assert.Equal(t, a, b)
	assert.Equal(t, "user-a_user-b_listing-1", a)

	// A different listing between the same pair is a different room.
	c := ListingRoomID("user-a", "user-b", "listing-2")
	assert.NotEqual(t, a, c)
}

func TestRoleOf(t *testing.T) {
	room := &ChatRoom{OwnerID: "host", CustomerID: "renter"}

	role, ok := room.RoleOf("host")
	assert.True(t, ok)
	assert.Equal(t, RoleOwner, role)

	role, ok = room.RoleOf("renter")
	assert.True(t, ok)
	assert.Equal(t, RoleCustomer, role)

	_, ok = room.RoleOf("stranger")
	assert.False(t, ok)
}

func TestUnreadFor(t *testing.T) {
	room := &ChatRoom{
		OwnerID:          "host",
		CustomerID:       "renter",
		UnreadByOwner:    3,
		UnreadByCustomer: 7,
	}

	assert.Equal(t, int64(3), room.UnreadFor("host"))
	assert.Equal(t, int64(7), room.UnreadFor("renter"))
	assert.Equal(t, int64(0), room.UnreadFor("stranger"))
}

func TestRecipientRole(t *testing.T) {
	room := &ChatRoom{OwnerID: "host", CustomerID: "renter"}

	assert.Equal(t, RoleOwner, room.RecipientRole("renter"))
	assert.Equal(t, RoleCustomer, room.RecipientRole("host"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, RoomKindListing, (&ChatRoom{ListingID: "l1"}).Kind())
	assert.Equal(t, RoomKindFavor, (&ChatRoom{RequestID: "f1"}).Kind())
	assert.Equal(t, RoomKindUnknown, (&ChatRoom{}).Kind())
}

func TestLeftBy(t *testing.T) {
	room := &ChatRoom{OwnerID: "host", CustomerID: "renter", LeftByOwner: true}

	assert.True(t, room.LeftBy("host"))
	assert.False(t, room.LeftBy("renter"))
	assert.False(t, room.LeftBy("stranger"))
}
