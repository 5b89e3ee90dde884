package models

// Order statuses as the service reports them. The client only ever requests
// the Pending -> Sent transition (via the send endpoint); everything else is
// display-only.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusCancelled = "Cancelled"
	OrderStatusDelivered = "Delivered"
	OrderStatusSent      = "Sent"
)

// OrderItem is a (name, price, quantity) snapshot taken at submission time,
// decoupled from later menu edits.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	TotalPrice float64     `json:"total_price"` // computed by the service, trusted as-is
	Status     string      `json:"status"`
	Items      []OrderItem `json:"order_items"`
}
