// Package memory is the self-contained storage backend: one Store
// holds the whole marketplace state behind an RWMutex, with per-item
// and per-user locks standing in for the row locks of the postgres
// backend. It backs the demo mode and the use-case tests.
package memory

import (
	"sync"

	"github.com/google/uuid"
	auctiondomain "github.com/greenbay-io/greenbay/internal/auction/domain"
	userdomain "github.com/greenbay-io/greenbay/internal/user/domain"
)

// Store is a concurrency-safe in-memory database. The maps are guarded
// by mu; writes that belong to a transaction are staged on the tx
// handle and applied under mu at commit, so a rollback leaves no
// partial state.
type Store struct {
	mu             sync.RWMutex
	users          map[uuid.UUID]*userdomain.User
	usersByName    map[string]uuid.UUID
	items          map[uuid.UUID]*auctiondomain.Item
	itemOrder      []uuid.UUID
	bids           map[uuid.UUID][]*auctiondomain.Bid // itemID -> bids in creation order
	purchases      map[uuid.UUID]*auctiondomain.Purchase
	purchaseByItem map[uuid.UUID]uuid.UUID

	lockMu    sync.Mutex
	itemLocks map[uuid.UUID]*sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:          make(map[uuid.UUID]*userdomain.User),
		usersByName:    make(map[string]uuid.UUID),
		items:          make(map[uuid.UUID]*auctiondomain.Item),
		bids:           make(map[uuid.UUID][]*auctiondomain.Bid),
		purchases:      make(map[uuid.UUID]*auctiondomain.Purchase),
		purchaseByItem: make(map[uuid.UUID]uuid.UUID),
		itemLocks:      make(map[uuid.UUID]*sync.Mutex),
		userLocks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) itemLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.itemLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.itemLocks[id] = l
	}
	return l
}

func (s *Store) userLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.userLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[id] = l
	}
	return l
}

func copyItem(i *auctiondomain.Item) *auctiondomain.Item {
	c := *i
	return &c
}

func copyBid(b *auctiondomain.Bid) *auctiondomain.Bid {
	c := *b
	return &c
}

func copyPurchase(p *auctiondomain.Purchase) *auctiondomain.Purchase {
	c := *p
	return &c
}

func copyUser(u *userdomain.User) *userdomain.User {
	c := *u
	return &c
}
