package cart

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Key identifies the cake configuration.
type Item struct {
	Key          string          `json:"key"`
	CakeID       uuid.UUID       `json:"cake_id"`
	CakeName     string          `json:"cake_name"`
	VariantID    *uuid.UUID      `json:"variant_id,omitempty"`
	SizeLabel    *string         `json:"size_label,omitempty"`
	UnitPriceRSD decimal.Decimal `json:"unit_price_rsd"`
	Qty          int             `json:"qty"`
}

func BentoKey(cakeID uuid.UUID) string {
	return fmt.Sprintf("bento:%s", cakeID)
}

func VariantKey(cakeID, variantID uuid.UUID) string {
	return fmt.Sprintf("variant:%s:%s", cakeID, variantID)
}

// Store keeps at most one Item per key, in insertion order.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// AddItem inserts item with qty 1 or bumps the existing line by 1.
// item.Qty is ignored.
func (s *Store) AddItem(item Item) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.Key); i >= 0 {
		s.items[i].Qty++
		return s.items[i]
	}
	item.Qty = 1
	s.items = append(s.items, item)
	return item
}

// SetQty sets the quantity exactly. qty <= 0 removes the line.
// It reports whether the key was present.
func (s *Store) SetQty(key string, qty int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		s.removeAt(i)
		return true
	}
	s.items[i].Qty = qty
	return true
}

func (s *Store) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(key); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// RemoveLines takes checked-out lines back out of the cart. Each line loses at
// most the quantity that was ordered; anything added since stays.
func (s *Store) RemoveLines(ordered []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range ordered {
		i := s.indexOf(o.Key)
		if i < 0 {
			continue
		}
		if s.items[i].Qty <= o.Qty {
			s.removeAt(i)
			continue
		}
		s.items[i].Qty -= o.Qty
	}
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

// Count is the number of distinct lines, not the sum of quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPriceRSD.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

func (s *Store) indexOf(key string) int {
	for i := range s.items {
		if s.items[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}
