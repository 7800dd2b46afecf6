// README: In-memory notification store for tests and the memory storage mode.
package notification

import (
	"context"
	"sort"
	"sync"

	"shoerack/internal/types"
)

type MemStore struct {
	mu    sync.Mutex
	items map[types.ID]*Notification
}

func NewMemStore() *MemStore {
	return &MemStore{items: make(map[types.ID]*Notification)}
}

func (s *MemStore) Create(_ context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *n
	s.items[n.ID] = &c
	return nil
}

func (s *MemStore) List(_ context.Context, ownerID types.ID) ([]*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Notification
	for _, n := range s.items {
		if n.OwnerID != ownerID {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) MarkRead(_ context.Context, id types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return false, nil
	}
	n.Read = true
	return true, nil
}

func (s *MemStore) Delete(_ context.Context, id types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *MemStore) UnreadCount(_ context.Context, ownerID types.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if n.OwnerID == ownerID && !n.Read {
			count++
		}
	}
	return count, nil
}
