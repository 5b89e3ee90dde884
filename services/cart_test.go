package services

import (
	"testing"

	"resto-telegram/models"
)

var (
	burger = models.MenuItem{ID: "m1", Name: "Burger", Price: 5.00, Category: "Mains"}
	fries  = models.MenuItem{ID: "m2", Name: "Fries", Price: 2.00, Category: "Sides"}
)

func TestCartAddAndTotal(t *testing.T) {
	s := NewCartStore()
	chatID := int64(1)

	s.Add(chatID, burger)
	s.Add(chatID, burger)
	s.Add(chatID, fries)

	lines := s.Lines(chatID)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Item.Name != "Burger" || lines[0].Qty != 2 {
		t.Errorf("line 0 = %s x%d, want Burger x2", lines[0].Item.Name, lines[0].Qty)
	}
	if lines[1].Item.Name != "Fries" || lines[1].Qty != 1 {
		t.Errorf("line 1 = %s x%d, want Fries x1", lines[1].Item.Name, lines[1].Qty)
	}
	if got := s.Total(chatID); got != 12.00 {
		t.Errorf("total = %.2f, want 12.00", got)
	}
}

func TestCartRemove(t *testing.T) {
	s := NewCartStore()
	chatID := int64(1)
	s.Add(chatID, burger)
	s.Add(chatID, burger)
	s.Add(chatID, fries)

	s.Remove(chatID, burger.ID)
	if got := s.Total(chatID); got != 7.00 {
		t.Errorf("total after removing one Burger = %.2f, want 7.00", got)
	}

	s.Remove(chatID, fries.ID)
	lines := s.Lines(chatID)
	if len(lines) != 1 {
		t.Fatalf("expected Fries line removed, got %d lines", len(lines))
	}
	for _, l := range lines {
		if l.Qty <= 0 {
			t.Errorf("line %s kept with quantity %d", l.Item.Name, l.Qty)
		}
	}
}

func TestCartRemoveAbsentItem(t *testing.T) {
	s := NewCartStore()
	chatID := int64(1)
	s.Add(chatID, burger)

	s.Remove(chatID, "nope")

	if got := s.Total(chatID); got != 5.00 {
		t.Errorf("total = %.2f, want 5.00", got)
	}
}

func TestCartIsolationBetweenChats(t *testing.T) {
	s := NewCartStore()
	s.Add(1, burger)
	s.Add(2, fries)

	if got := s.Total(1); got != 5.00 {
		t.Errorf("chat 1 total = %.2f, want 5.00", got)
	}
	if got := s.Total(2); got != 2.00 {
		t.Errorf("chat 2 total = %.2f, want 2.00", got)
	}

	s.Clear(1)
	if !s.Empty(1) {
		t.Error("chat 1 cart should be empty after Clear")
	}
	if s.Empty(2) {
		t.Error("chat 2 cart should be untouched")
	}
}
