package identity

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local runs without
// postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]Identity
	byNick  map[string]int64
	friends [][2]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]Identity),
		byNick: make(map[string]int64),
	}
}

// AddUser registers nickname and returns its identity; adding an existing
// nickname returns the existing identity.
func (s *MemoryStore) AddUser(nickname string) Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byNick[nickname]; ok {
		return s.byID[id]
	}
	s.nextID++
	ident := Identity{ID: s.nextID, Nickname: nickname}
	s.byID[ident.ID] = ident
	s.byNick[nickname] = ident.ID
	return ident
}

// AddFriendship stores the edge as given; lookups match either side.
func (s *MemoryStore) AddFriendship(a, b int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends = append(s.friends, [2]int64{a, b})
}

func (s *MemoryStore) FindFriendEdges(ctx context.Context, userID int64) ([]FriendEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var edges []FriendEdge
	for _, f := range s.friends {
		if f[0] != userID && f[1] != userID {
			continue
		}
		edges = append(edges, FriendEdge{A: s.byID[f[0]], B: s.byID[f[1]]})
	}
	return edges, nil
}

func (s *MemoryStore) ResolveByNickname(ctx context.Context, nickname string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNick[nickname]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return s.byID[id], nil
}
