package usecase

import (
	"context"
	"sort"
	"sync"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/pkg/logger"
)

// UnreadAggregate is the reconciliation engine's derived output: the viewing
// user's unread count per room plus totals, recomputed on every snapshot
// from either underlying subscription. It is never persisted.
type UnreadAggregate struct {
	Total        int64            `json:"total"`
	ListingTotal int64            `json:"listing_total"`
	FavorTotal   int64            `json:"favor_total"`
	ByRoom       map[string]int64 `json:"by_room"`
	// Rooms is the merged, deduplicated room list sorted by lastMessageAt
	// descending; rooms with no last message sort last.
	Rooms []*entity.ChatRoom `json:"rooms"`
}

// UnreadPublisher receives the fresh aggregate after every recompute.
type UnreadPublisher func(agg *UnreadAggregate)

// UnreadSession maintains, for one signed-in user, a live deduplicated view
// of unread counts across every chat room the user participates in. It owns
// two independent live subscriptions (rooms where the user is the owner,
// rooms where the user is the customer), each delivering full snapshots.
// Snapshots replace that side's cache wholesale; the merge is recomputed from
// the latest cache of each side, so the result is independent of delivery
// interleaving.
//
// A session is constructed fresh per authenticated connection and stopped on
// sign-out or disconnect. Subscriptions are never reused across sessions.
type UnreadSession struct {
	userID  string
	repo    repository.ChatRoomRepository
	publish UnreadPublisher

	mu           sync.Mutex
	ownerSide    []*entity.ChatRoom
	customerSide []*entity.ChatRoom
	stopped      bool

	unsubOwner    repository.Unsubscribe
	unsubCustomer repository.Unsubscribe
	stopOnce      sync.Once
}

func NewUnreadSession(repo repository.ChatRoomRepository, userID string, publish UnreadPublisher) *UnreadSession {
	return &UnreadSession{
		userID:  userID,
		repo:    repo,
		publish: publish,
	}
}

// Start opens both role subscriptions. On failure nothing is left running.
func (s *UnreadSession) Start(ctx context.Context) error {
	unsubOwner, err := s.repo.SubscribeByRole(ctx, entity.RoleOwner, s.userID, func(rooms []*entity.ChatRoom, err error) {
		s.onSnapshot(entity.RoleOwner, rooms, err)
	})
	if err != nil {
		return err
	}

	unsubCustomer, err := s.repo.SubscribeByRole(ctx, entity.RoleCustomer, s.userID, func(rooms []*entity.ChatRoom, err error) {
		s.onSnapshot(entity.RoleCustomer, rooms, err)
	})
	if err != nil {
		unsubOwner()
		return err
	}

	s.mu.Lock()
	s.unsubOwner = unsubOwner
	s.unsubCustomer = unsubCustomer
	stopped := s.stopped
	s.mu.Unlock()

	// Stop raced Start: tear down immediately rather than leak.
	if stopped {
		unsubOwner()
		unsubCustomer()
	}
	return nil
}

// Stop tears both subscriptions down. Safe to call more than once; snapshot
// callbacks arriving after Stop are ignored so a late delivery from the prior
// session can never repopulate state.
func (s *UnreadSession) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.ownerSide = nil
		s.customerSide = nil
		unsubOwner := s.unsubOwner
		unsubCustomer := s.unsubCustomer
		s.mu.Unlock()

		if unsubOwner != nil {
			unsubOwner()
		}
		if unsubCustomer != nil {
			unsubCustomer()
		}
	})
}

func (s *UnreadSession) onSnapshot(role entity.RoomRole, rooms []*entity.ChatRoom, err error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	if err != nil {
		// Permission loss or stream failure on one side must not poison the
		// aggregate: that side's contribution resets to empty.
		logger.Warn("unread subscription (%s side) for user %s failed: %v", role, s.userID, err)
		rooms = nil
	}

	if role == entity.RoleOwner {
		s.ownerSide = rooms
	} else {
		s.customerSide = rooms
	}
	agg := s.aggregateLocked()
	s.mu.Unlock()

	if s.publish != nil {
		s.publish(agg)
	}
}

// Aggregate returns the current derived state.
func (s *UnreadSession) Aggregate() *UnreadAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregateLocked()
}

func (s *UnreadSession) aggregateLocked() *UnreadAggregate {
	agg := &UnreadAggregate{ByRoom: make(map[string]int64)}

	// Owner side first, then customer side; the first occurrence of a room id
	// wins so a room is counted exactly once even if both queries report it.
	seen := make(map[string]bool)
	for _, room := range append(append([]*entity.ChatRoom{}, s.ownerSide...), s.customerSide...) {
		if seen[room.ID] {
			continue
		}
		seen[room.ID] = true

		if room.LeftBy(s.userID) {
			continue
		}

		unread := room.UnreadFor(s.userID)
		agg.ByRoom[room.ID] = unread
		agg.Total += unread
		switch room.Kind() {
		case entity.RoomKindListing:
			agg.ListingTotal += unread
			agg.Rooms = append(agg.Rooms, room)
		case entity.RoomKindFavor:
			agg.FavorTotal += unread
			agg.Rooms = append(agg.Rooms, room)
		default:
			// Rooms bound to neither a listing nor a favor are not shown in
			// any list; they still count toward the scalar total.
		}
	}

	sort.SliceStable(agg.Rooms, func(i, j int) bool {
		a, b := agg.Rooms[i].LastMessageAt, agg.Rooms[j].LastMessageAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	return agg
}
