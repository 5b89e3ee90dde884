package models

// MenuItem is a dish as served by the remote menu endpoint. The client never
// mutates menu items; it only snapshots name/price/quantity into orders.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}
