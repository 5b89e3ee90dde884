package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"resto-telegram/api"
	"resto-telegram/models"
)

// MaxTables is the fixed ceiling on table count; the service enforces it too,
// this guard just avoids a doomed round trip.
const MaxTables = 100

var (
	ErrTableExists = errors.New("table number already exists")
	ErrTableLimit  = fmt.Errorf("table limit of %d reached", MaxTables)
)

// RejectedError is the booking endpoint's soft rejection: a transport-level
// success whose payload carries a business refusal (booking limit, conflict).
// The server message is surfaced verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Bookings coordinates table listing, booking and freeing. It never mutates
// table state optimistically: every mutation is followed by a refetch,
// because freeing or assigning can touch several tables of one booking.
type Bookings struct {
	api      *api.Client
	sessions *SessionStore
}

func NewBookings(client *api.Client, sessions *SessionStore) *Bookings {
	return &Bookings{api: client, sessions: sessions}
}

// Tables returns the full table set sorted ascending by table number. The
// ordering is for display only.
func (b *Bookings) Tables(ctx context.Context) ([]models.Table, error) {
	tables, err := b.api.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].TableNumber < tables[j].TableNumber
	})
	return tables, nil
}

// FreeTables lists only unoccupied tables, sorted ascending by table number.
// Used when picking a table for a booking, so the occupancy filter stays
// server-side.
func (b *Bookings) FreeTables(ctx context.Context) ([]models.Table, error) {
	tables, err := b.api.ListFreeTables(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].TableNumber < tables[j].TableNumber
	})
	return tables, nil
}

// NormalizeDate accepts YYYY-MM-DD or DD-MM-YYYY and returns the DD-MM-YYYY
// form the booking endpoint parses.
func NormalizeDate(s string) (string, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02-01-2006"), nil
	}
	if t, err := time.Parse("02-01-2006", s); err == nil {
		return t.Format("02-01-2006"), nil
	}
	return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
}

// Book submits a booking for the session user. A soft rejection comes back
// as *RejectedError and leaves no local state changed; only a result with a
// booking id counts as success.
func (b *Bookings) Book(ctx context.Context, chatID int64, date, timeOfDay string) (*models.Booking, error) {
	user, ok := b.sessions.Current(chatID)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	normalized, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	res, err := b.api.CreateBooking(ctx, user.ID, normalized, timeOfDay)
	if err != nil {
		return nil, err
	}
	if res.Rejection != "" {
		return nil, &RejectedError{Message: res.Rejection}
	}
	return res.Booking, nil
}

// Free releases a table and refetches the authoritative table list.
func (b *Bookings) Free(ctx context.Context, tableID string) ([]models.Table, error) {
	if _, err := b.api.FreeTable(ctx, tableID); err != nil {
		return nil, err
	}
	return b.Tables(ctx)
}

// CreateTable registers a new table number. Duplicate numbers and the table
// ceiling are rejected against the caller's current list before any network
// call; the service repeats both checks authoritatively.
func (b *Bookings) CreateTable(ctx context.Context, chatID int64, current []models.Table, number int) (*models.Table, error) {
	if !b.sessions.IsAdmin(chatID) {
		return nil, ErrAdminOnly
	}
	if len(current) >= MaxTables {
		return nil, ErrTableLimit
	}
	for _, t := range current {
		if t.TableNumber == number {
			return nil, ErrTableExists
		}
	}
	return b.api.CreateTable(ctx, number)
}

// AssignTable attaches a table to a pending booking, then refetches bookings
// so the view reflects the server-confirmed state.
func (b *Bookings) AssignTable(ctx context.Context, bookingID string, tableNumber int) ([]models.Booking, error) {
	if err := b.api.AssignTable(ctx, bookingID, tableNumber); err != nil {
		return nil, err
	}
	return b.api.ListBookings(ctx)
}

// BookingsForUser lists the session user's bookings, newest state straight
// from the service.
func (b *Bookings) BookingsForUser(ctx context.Context, chatID int64) ([]models.Booking, error) {
	user, ok := b.sessions.Current(chatID)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	bookings, err := b.api.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	var own []models.Booking
	for _, bk := range bookings {
		if bk.UserID == user.ID {
			own = append(own, bk)
		}
	}
	return own, nil
}

// Cancel deletes one of the session user's bookings. Ownership is checked
// against the freshly fetched booking before the delete; the refetched user
// list is returned for re-rendering.
func (b *Bookings) Cancel(ctx context.Context, chatID int64, bookingID string) ([]models.Booking, error) {
	user, ok := b.sessions.Current(chatID)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	booking, err := b.api.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != user.ID {
		return nil, ErrNotOwner
	}
	if err := b.api.DeleteBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return b.BookingsForUser(ctx, chatID)
}

// Confirm moves an assigned Pending booking to Confirmed, then refetches the
// admin view.
func (b *Bookings) Confirm(ctx context.Context, chatID int64, bookingID string) ([]models.Booking, error) {
	if !b.sessions.IsAdmin(chatID) {
		return nil, ErrAdminOnly
	}
	if _, err := b.api.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	return b.api.ListBookings(ctx)
}

// AllBookings is the admin view used for table assignment.
func (b *Bookings) AllBookings(ctx context.Context, chatID int64) ([]models.Booking, error) {
	if !b.sessions.IsAdmin(chatID) {
		return nil, ErrAdminOnly
	}
	return b.api.ListBookings(ctx)
}
