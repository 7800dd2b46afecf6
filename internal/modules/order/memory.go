// README: In-memory order store; same CAS semantics as the Postgres store.
package order

import (
	"context"
	"sort"
	"sync"

	"shoerack/internal/types"
)

// MemStore keeps orders in a mutex-guarded map. It backs the unit tests and
// the "memory" storage mode, which mirrors the original json-file prototype.
type MemStore struct {
	mu     sync.Mutex
	orders map[types.ID]*Order
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[types.ID]*Order)}
}

func (s *MemStore) Create(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *MemStore) Get(_ context.Context, id types.ID) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *MemStore) List(_ context.Context, ownerID types.ID) ([]*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Order
	for _, o := range s.orders {
		if ownerID != "" && o.OwnerID != ownerID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, entry HistoryEntry, cancelReason *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false, ErrNotFound
	}
	if o.Status != from || o.Version != version {
		return false, nil
	}
	o.Status = to
	o.Version++
	o.History = append(o.History, entry)
	if cancelReason != nil {
		r := *cancelReason
		o.CancelReason = &r
	}
	return true, nil
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = append([]LineItem(nil), o.Items...)
	c.History = append([]HistoryEntry(nil), o.History...)
	if o.CancelReason != nil {
		r := *o.CancelReason
		c.CancelReason = &r
	}
	return &c
}
