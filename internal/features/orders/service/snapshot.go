package service

import (
	"sync"

	"storefront-console/internal/features/orders/domain"
)

// Snapshot is the explicitly owned in-memory view of one seller's orders.
// It is the only mutable shared state in the orders feature: the full
// refetch replaces it wholesale, and status changes patch single records
// with an id-indexed pre-mutation copy kept for rollback.
type Snapshot struct {
	mu       sync.RWMutex
	orders   []domain.Order
	index    map[string]int
	updating map[string]bool
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		index:    make(map[string]int),
		updating: make(map[string]bool),
	}
}

// ReplaceAll swaps in a freshly fetched order list. In-flight markers are
// kept so a refresh cannot unlock an order mid-update.
func (s *Snapshot) ReplaceAll(orders []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]domain.Order, len(orders))
	copy(s.orders, orders)

	s.index = make(map[string]int, len(orders))
	for i, o := range s.orders {
		if o.ID != "" {
			s.index[o.ID] = i
		}
	}
}

// List returns a copy of the current order collection.
func (s *Snapshot) List() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Len returns the number of orders currently held.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Get returns the order with the given id.
func (s *Snapshot) Get(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Order{}, false
	}
	return s.orders[i], true
}

// Apply overwrites the record matching order.ID and returns the pre-mutation
// copy for rollback. Returns false when the id is not in the snapshot.
func (s *Snapshot) Apply(order domain.Order) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[order.ID]
	if !ok {
		return domain.Order{}, false
	}

	prev := s.orders[i]
	s.orders[i] = order
	return prev, true
}

// Restore puts a previously captured record back, undoing an optimistic
// patch after a failed remote call. Only the affected entry is touched.
func (s *Snapshot) Restore(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[order.ID]; ok {
		s.orders[i] = order
	}
}

// BeginUpdate marks an order as having an in-flight mutation. Returns false
// when a mutation for the same order is already running.
func (s *Snapshot) BeginUpdate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updating[id] {
		return false
	}
	s.updating[id] = true
	return true
}

// EndUpdate clears the in-flight marker for an order.
func (s *Snapshot) EndUpdate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.updating, id)
}

// Updating reports whether an order has an in-flight mutation.
func (s *Snapshot) Updating(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updating[id]
}
