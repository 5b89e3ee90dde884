package services

import (
	"strings"
	"testing"

	"resto-telegram/models"
)

func TestBuildCartCard(t *testing.T) {
	lines := []CartLine{
		{Item: burger, Qty: 2},
		{Item: fries, Qty: 1},
	}
	card := BuildCartCard(lines, 12.00)

	if !strings.Contains(card.Text, "Burger x2 = $10.00") {
		t.Errorf("text missing Burger line:\n%s", card.Text)
	}
	if !strings.Contains(card.Text, "Total: $12.00") {
		t.Errorf("text missing total:\n%s", card.Text)
	}
	// One remove button per line plus checkout.
	if len(card.Buttons) != 3 {
		t.Fatalf("button rows = %d, want 3", len(card.Buttons))
	}
	if card.Buttons[0][0].CallbackData != "rm:m1" {
		t.Errorf("first button = %q, want rm:m1", card.Buttons[0][0].CallbackData)
	}
	if card.Buttons[2][0].CallbackData != "checkout" {
		t.Errorf("last button = %q, want checkout", card.Buttons[2][0].CallbackData)
	}
}

func TestBuildCartCardEmpty(t *testing.T) {
	card := BuildCartCard(nil, 0)
	if card.Text != "Your cart is empty." {
		t.Errorf("text = %q", card.Text)
	}
	if len(card.Buttons) != 0 {
		t.Errorf("empty cart should have no buttons, got %d rows", len(card.Buttons))
	}
}

func TestBuildTableCard(t *testing.T) {
	free := models.Table{ID: "t1", TableNumber: 4, Status: models.BookingStatusAvailable}
	card := BuildTableCard(free)
	if card.Buttons[0][0].CallbackData != "book" {
		t.Errorf("free table button = %q, want book", card.Buttons[0][0].CallbackData)
	}

	booked := models.Table{
		ID: "t2", TableNumber: 5, Status: models.BookingStatusConfirmed,
		Booked: true, Date: "2026-09-15", Time: "18:30:00",
	}
	card = BuildTableCard(booked)
	if card.Buttons[0][0].CallbackData != "free:t2" {
		t.Errorf("booked table button = %q, want free:t2", card.Buttons[0][0].CallbackData)
	}
	if !strings.Contains(card.Text, "Time: 18:30") || strings.Contains(card.Text, "18:30:00") {
		t.Errorf("time should render as HH:MM:\n%s", card.Text)
	}
}

func TestBuildBookingCardButtons(t *testing.T) {
	pending := models.Booking{ID: "b1", Status: models.BookingStatusPending}
	assigned := pending
	assigned.Tables = []models.BookedTable{{ID: "t1", TableNumber: 3}}
	confirmed := assigned
	confirmed.Status = models.BookingStatusConfirmed

	tests := []struct {
		name    string
		booking models.Booking
		admin   bool
		want    string
	}{
		{name: "admin unassigned pending", booking: pending, admin: true, want: "assign:b1"},
		{name: "admin assigned pending", booking: assigned, admin: true, want: "confirmbk:b1"},
		{name: "owner pending", booking: pending, admin: false, want: "cancelbk:b1"},
		{name: "admin confirmed", booking: confirmed, admin: true, want: ""},
		{name: "owner confirmed", booking: confirmed, admin: false, want: ""},
	}
	for _, tc := range tests {
		card := BuildBookingCard(tc.booking, tc.admin)
		if tc.want == "" {
			if len(card.Buttons) != 0 {
				t.Errorf("%s: buttons = %+v, want none", tc.name, card.Buttons)
			}
			continue
		}
		if len(card.Buttons) != 1 || card.Buttons[0][0].CallbackData != tc.want {
			t.Errorf("%s: buttons = %+v, want %s", tc.name, card.Buttons, tc.want)
		}
	}
}

func TestBuildOrderCardCancelButton(t *testing.T) {
	pending := models.Order{ID: "o1", Status: models.OrderStatusPending}
	card := BuildOrderCard(pending)
	if len(card.Buttons) != 2 || card.Buttons[1][0].CallbackData != "cancelord:o1" {
		t.Fatalf("pending order should offer cancel, got %+v", card.Buttons)
	}

	sent := models.Order{ID: "o2", Status: models.OrderStatusSent}
	card = BuildOrderCard(sent)
	if len(card.Buttons) != 1 || card.Buttons[0][0].CallbackData != "receipt:o2" {
		t.Fatalf("sent order should only offer the receipt, got %+v", card.Buttons)
	}
}

func TestBuildPendingOrderCardButtons(t *testing.T) {
	card := BuildPendingOrderCard(models.Order{ID: "o1", Status: models.OrderStatusPending})
	if len(card.Buttons) != 1 || len(card.Buttons[0]) != 2 {
		t.Fatalf("buttons = %+v, want send and discard in one row", card.Buttons)
	}
	if card.Buttons[0][0].CallbackData != "send:o1" || card.Buttons[0][1].CallbackData != "discard:o1" {
		t.Errorf("buttons = %+v", card.Buttons[0])
	}
}
