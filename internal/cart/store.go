package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds one user's in-memory cart. All operations are safe for
// concurrent use; mutating operations return the updated snapshot so callers
// never observe a partially applied cart.
type Store struct {
	mu    sync.Mutex
	items []Item
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{}
}

// Add inserts the product or bumps its quantity when already present.
// Quantity per product is clamped at MaxQuantityPerProduct.
func (s *Store) Add(item Item) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + item.Quantity)
			return s.snapshotLocked()
		}
	}
	item.Quantity = clampQuantity(item.Quantity)
	s.items = append(s.items, item)
	return s.snapshotLocked()
}

// Increment bumps the quantity of an existing line. Unknown products are a
// no-op rather than an error so stale clients cannot corrupt the cart.
func (s *Store) Increment(productID uuid.UUID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + 1)
			break
		}
	}
	return s.snapshotLocked()
}

// Decrement lowers the quantity of an existing line, removing the line when
// it reaches zero.
func (s *Store) Decrement(productID uuid.UUID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity--
			if s.items[i].Quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			}
			break
		}
	}
	return s.snapshotLocked()
}

// Remove drops the line for the product regardless of quantity.
func (s *Store) Remove(productID uuid.UUID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return s.snapshotLocked()
}

// Reset empties the cart.
func (s *Store) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.snapshotLocked()
}

// Replace swaps the full contents of the cart, clamping each line. Used when
// rehydrating a cart from the mirror.
func (s *Store) Replace(items []Item) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		item.Quantity = clampQuantity(item.Quantity)
		s.items = append(s.items, item)
	}
	return s.snapshotLocked()
}

// Snapshot returns the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]Item, len(s.items))
	copy(items, s.items)

	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return Snapshot{Items: items, ItemCount: count, TotalPrice: total}
}

func clampQuantity(q int) int {
	if q > MaxQuantityPerProduct {
		return MaxQuantityPerProduct
	}
	if q < 1 {
		return 1
	}
	return q
}
