package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/pkg/errors"
)

// fakeSubscribingRepo lets tests push snapshots into a session by hand.
type fakeSubscribingRepo struct {
	repository.ChatRoomRepository

	mu        sync.Mutex
	callbacks map[entity.RoomRole]repository.RoomSnapshotFunc
	unsubs    map[entity.RoomRole]int
	failRole  entity.RoomRole
}

func newFakeSubscribingRepo() *fakeSubscribingRepo {
	return &fakeSubscribingRepo{
		callbacks: make(map[entity.RoomRole]repository.RoomSnapshotFunc),
		unsubs:    make(map[entity.RoomRole]int),
	}
}

func (f *fakeSubscribingRepo) SubscribeByRole(ctx context.Context, role entity.RoomRole, userID string, fn repository.RoomSnapshotFunc) (repository.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role == f.failRole {
		return nil, errors.Internal("subscription refused", nil)
	}
	f.callbacks[role] = fn
	return func() {
		f.mu.Lock()
		f.unsubs[role]++
		f.mu.Unlock()
	}, nil
}

func (f *fakeSubscribingRepo) deliver(role entity.RoomRole, rooms []*entity.ChatRoom, err error) {
	f.mu.Lock()
	fn := f.callbacks[role]
	f.mu.Unlock()
	fn(rooms, err)
}

func (f *fakeSubscribingRepo) unsubCount(role entity.RoomRole) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unsubs[role]
}

type aggregateRecorder struct {
	mu   sync.Mutex
	aggs []*UnreadAggregate
}

func (r *aggregateRecorder) publish(agg *UnreadAggregate) {
	r.mu.Lock()
	r.aggs = append(r.aggs, agg)
	r.mu.Unlock()
}

func (r *aggregateRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.aggs)
}

func (r *aggregateRecorder) last() *UnreadAggregate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.aggs) == 0 {
		return nil
	}
	return r.aggs[len(r.aggs)-1]
}

func listingRoom(id, ownerID, customerID string, unreadOwner, unreadCustomer int64, lastAt time.Time) *entity.ChatRoom {
	return &entity.ChatRoom{
		ID:               id,
		OwnerID:          ownerID,
		CustomerID:       customerID,
		ListingID:        "listing-" + id,
		UnreadByOwner:    unreadOwner,
		UnreadByCustomer: unreadCustomer,
		LastMessageAt:    lastAt,
	}
}

func TestUnreadSessionAggregatesBothSides(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	now := time.Now()
	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		listingRoom("r1", "me", "them", 2, 9, now),
	}, nil)
	repo.deliver(entity.RoleCustomer, []*entity.ChatRoom{
		listingRoom("r2", "them", "me", 9, 3, now.Add(-time.Minute)),
	}, nil)

	agg := rec.last()
	require.NotNil(t, agg)
	// Role-correct selection: owner counter in r1, customer counter in r2.
	assert.Equal(t, int64(5), agg.Total)
	assert.Equal(t, int64(2), agg.ByRoom["r1"])
	assert.Equal(t, int64(3), agg.ByRoom["r2"])
	assert.Equal(t, int64(5), agg.ListingTotal)
	assert.Equal(t, int64(0), agg.FavorTotal)
	// Newest activity first.
	require.Len(t, agg.Rooms, 2)
	assert.Equal(t, "r1", agg.Rooms[0].ID)

	// The same snapshots in the opposite delivery order produce the same
	// aggregate; the merge depends only on the latest snapshot of each side.
	repo2 := newFakeSubscribingRepo()
	rec2 := &aggregateRecorder{}
	session2 := NewUnreadSession(repo2, "me", rec2.publish)
	require.NoError(t, session2.Start(context.Background()))
	defer session2.Stop()

	repo2.deliver(entity.RoleCustomer, []*entity.ChatRoom{
		listingRoom("r2", "them", "me", 9, 3, now.Add(-time.Minute)),
	}, nil)
	repo2.deliver(entity.RoleOwner, []*entity.ChatRoom{
		listingRoom("r1", "me", "them", 2, 9, now),
	}, nil)

	assert.Equal(t, agg.Total, rec2.last().Total)
	assert.Equal(t, agg.ByRoom, rec2.last().ByRoom)
}

func TestUnreadSessionRedeliveryIsIdempotent(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	rooms := []*entity.ChatRoom{listingRoom("r1", "me", "them", 4, 0, time.Now())}
	repo.deliver(entity.RoleOwner, rooms, nil)
	repo.deliver(entity.RoleOwner, rooms, nil)
	repo.deliver(entity.RoleOwner, rooms, nil)

	agg := rec.last()
	require.NotNil(t, agg)
	assert.Equal(t, int64(4), agg.Total)
	assert.Len(t, agg.Rooms, 1)
}

func TestUnreadSessionRoomOnBothSidesCountsOnce(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	// The same room id surfacing in both queries must not double count; the
	// owner-side copy wins.
	now := time.Now()
	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		listingRoom("shared", "me", "them", 6, 1, now),
	}, nil)
	repo.deliver(entity.RoleCustomer, []*entity.ChatRoom{
		listingRoom("shared", "me", "them", 6, 1, now),
	}, nil)

	agg := rec.last()
	require.NotNil(t, agg)
	assert.Equal(t, int64(6), agg.Total)
	assert.Len(t, agg.Rooms, 1)
}

func TestUnreadSessionSkipsLeftRooms(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	left := listingRoom("gone", "me", "them", 5, 0, time.Now())
	left.LeftByOwner = true
	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		left,
		listingRoom("kept", "me", "them", 1, 0, time.Now()),
	}, nil)

	agg := rec.last()
	require.NotNil(t, agg)
	assert.Equal(t, int64(1), agg.Total)
	assert.Len(t, agg.Rooms, 1)
	assert.Equal(t, "kept", agg.Rooms[0].ID)
}

func TestUnreadSessionSideErrorZeroesThatSide(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	now := time.Now()
	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		listingRoom("r1", "me", "them", 2, 0, now),
	}, nil)
	repo.deliver(entity.RoleCustomer, []*entity.ChatRoom{
		listingRoom("r2", "them", "me", 0, 3, now),
	}, nil)
	assert.Equal(t, int64(5), rec.last().Total)

	// Permission loss on the customer side: its contribution drops, the
	// owner side survives.
	repo.deliver(entity.RoleCustomer, nil, errors.Internal("permission denied", nil))

	agg := rec.last()
	assert.Equal(t, int64(2), agg.Total)
	assert.Len(t, agg.Rooms, 1)
}

func TestUnreadSessionStopIgnoresLateSnapshots(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))

	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		listingRoom("r1", "me", "them", 2, 0, time.Now()),
	}, nil)

	session.Stop()
	assert.Equal(t, 1, repo.unsubCount(entity.RoleOwner))
	assert.Equal(t, 1, repo.unsubCount(entity.RoleCustomer))

	// A snapshot still in flight when Stop ran must not repopulate state.
	published := rec.count()
	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		listingRoom("r1", "me", "them", 99, 0, time.Now()),
	}, nil)
	assert.Equal(t, published, rec.count())
	assert.Equal(t, int64(0), session.Aggregate().Total)

	// Stop is idempotent.
	session.Stop()
	assert.Equal(t, 1, repo.unsubCount(entity.RoleOwner))
}

func TestUnreadSessionStartFailureLeavesNothingRunning(t *testing.T) {
	repo := newFakeSubscribingRepo()
	repo.failRole = entity.RoleCustomer

	session := NewUnreadSession(repo, "me", nil)
	err := session.Start(context.Background())
	require.Error(t, err)

	// The owner-side subscription opened first and must have been torn down.
	assert.Equal(t, 1, repo.unsubCount(entity.RoleOwner))
}

func TestUnreadSessionKindTotals(t *testing.T) {
	repo := newFakeSubscribingRepo()
	rec := &aggregateRecorder{}
	session := NewUnreadSession(repo, "me", rec.publish)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	favor := &entity.ChatRoom{
		ID:            "f1",
		OwnerID:       "me",
		CustomerID:    "them",
		RequestID:     "favor-1",
		UnreadByOwner: 2,
		LastMessageAt: time.Now(),
	}
	repo.deliver(entity.RoleOwner, []*entity.ChatRoom{
		favor,
		listingRoom("l1", "me", "them", 3, 0, time.Now()),
	}, nil)

	agg := rec.last()
	assert.Equal(t, int64(5), agg.Total)
	assert.Equal(t, int64(3), agg.ListingTotal)
	assert.Equal(t, int64(2), agg.FavorTotal)
}
