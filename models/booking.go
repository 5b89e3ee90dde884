package models

const (
	BookingStatusAvailable = "Available"
	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
)

// Table row from GET /tables. Booking linkage fields are null when free.
type Table struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	UserID      string `json:"user_id"`
	TableNumber int    `json:"table_number"`
	Date        string `json:"date"` // ISO date of the current booking, empty when free
	Time        string `json:"time"` // HH:MM:SS
	Status      string `json:"status"`
	Booked      bool   `json:"booked"`
}

// BookedTable is the trimmed table shape embedded in a booking.
type BookedTable struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
	Date        string `json:"booking_date"`
	Time        string `json:"booking_time"`
	Status      string `json:"booking_status"`
}

type Booking struct {
	ID     string        `json:"id"`
	UserID string        `json:"user_id"`
	Date   string        `json:"date"` // ISO date
	Time   string        `json:"time"` // HH:MM:SS
	Status string        `json:"status"`
	Tables []BookedTable `json:"tables"`
}
