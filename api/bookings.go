package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"resto-telegram/models"
)

type createBookingRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"` // DD-MM-YYYY, the format the service parses
	Time   string `json:"time"` // HH:MM
}

// BookingResult distinguishes a created booking from the service's soft
// rejection: the booking endpoint answers 200 with a bare {"message": ...}
// body when the per-user booking limit is hit, instead of a non-2xx status.
// Exactly one of Booking/Rejection is set.
type BookingResult struct {
	Booking   *models.Booking
	Rejection string // server-provided message, verbatim
}

// CreateBooking submits a booking request. A transport or status-code failure
// returns an error; a soft rejection returns a nil error with
// BookingResult.Rejection populated.
func (c *Client) CreateBooking(ctx context.Context, userID, date, timeOfDay string) (*BookingResult, error) {
	req := createBookingRequest{UserID: userID, Date: date, Time: timeOfDay}

	// Decoded by hand: the same 2xx status can carry either a booking DTO or
	// a rejection message, so the payload decides.
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/bookings/", req, &raw); err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := json.Unmarshal(raw, &booking); err == nil && booking.ID != "" {
		return &BookingResult{Booking: &booking}, nil
	}

	var soft struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &soft); err == nil && soft.Message != "" {
		return &BookingResult{Rejection: soft.Message}, nil
	}
	return nil, fmt.Errorf("unrecognized booking response: %s", string(raw))
}

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/"+bookingID, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// AssignTable attaches a table (by number) to a pending booking and confirms
// both server-side.
func (c *Client) AssignTable(ctx context.Context, bookingID string, tableNumber int) error {
	body := map[string]int{"table_number": tableNumber}
	return c.doJSON(ctx, http.MethodPost, "/bookings/"+bookingID+"/assign-table", body, nil)
}

func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID, status string) (*models.Booking, error) {
	body := map[string]string{"status": status}
	var booking models.Booking
	if err := c.doJSON(ctx, http.MethodPut, "/bookings/"+bookingID, body, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) DeleteBooking(ctx context.Context, bookingID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/bookings/"+bookingID, nil, nil)
}
