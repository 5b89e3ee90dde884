package api

import (
	"context"
	"net/http"

	"resto-telegram/models"
)

type createOrderRequest struct {
	UserID string             `json:"user_id"`
	Items  []models.OrderItem `json:"order_items"`
}

// CreateOrder submits item snapshots for a user. The service assigns the id,
// computes the total and starts the order in Pending.
func (c *Client) CreateOrder(ctx context.Context, userID string, items []models.OrderItem) (*models.Order, error) {
	var order models.Order
	req := createOrderRequest{UserID: userID, Items: items}
	if err := c.doJSON(ctx, http.MethodPost, "/orders/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SendOrder asks the service to move a Pending order to Sent.
func (c *Client) SendOrder(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodPost, "/orders/"+orderID+"/send", nil, nil)
}

// Receipt is the printable representation of an order. ContentType tells
// callers whether they got a PDF or a JSON fallback.
type Receipt struct {
	Data        []byte
	ContentType string
}

func (c *Client) FetchReceipt(ctx context.Context, orderID string) (*Receipt, error) {
	data, ct, err := c.getRaw(ctx, "/orders/"+orderID+"/receipt")
	if err != nil {
		return nil, err
	}
	return &Receipt{Data: data, ContentType: ct}, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"status": status}
	return c.doJSON(ctx, http.MethodPut, "/orders/"+orderID, body, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/orders/"+orderID, nil, nil)
}
