package services

import (
	"sync"

	"resto-telegram/models"
)

// CartLine is one menu item with its selected quantity. Quantity is always
// >= 1; a line that would reach 0 is removed instead.
type CartLine struct {
	Item models.MenuItem
	Qty  int
}

// CartStore keeps one ephemeral cart per chat. Carts are the only entity the
// client owns; they live in memory only and are cleared after a confirmed
// order submission.
type CartStore struct {
	mu    sync.Mutex
	carts map[int64][]CartLine
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[int64][]CartLine)}
}

// Add increments the quantity for an already-present item, or appends a new
// line with quantity 1. Insertion order is kept for display.
func (s *CartStore) Add(chatID int64, item models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[chatID]
	for i := range lines {
		if lines[i].Item.ID == item.ID {
			lines[i].Qty++
			return
		}
	}
	s.carts[chatID] = append(lines, CartLine{Item: item, Qty: 1})
}

// Remove decrements the quantity for an item and deletes the line when it
// reaches 0. Removing an absent item is a no-op.
func (s *CartStore) Remove(chatID int64, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[chatID]
	for i := range lines {
		if lines[i].Item.ID != itemID {
			continue
		}
		lines[i].Qty--
		if lines[i].Qty <= 0 {
			s.carts[chatID] = append(lines[:i], lines[i+1:]...)
		}
		return
	}
}

// Lines returns a copy of the cart in insertion order.
func (s *CartStore) Lines(chatID int64) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[chatID]
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// Total is derived on every call, never cached.
func (s *CartStore) Total(chatID int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.carts[chatID] {
		total += l.Item.Price * float64(l.Qty)
	}
	return total
}

func (s *CartStore) Empty(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts[chatID]) == 0
}

// Clear empties the cart. Only called after the service confirmed the order.
func (s *CartStore) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, chatID)
}
