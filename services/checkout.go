package services

import (
	"context"
	"errors"
	"sync"

	"resto-telegram/api"
	"resto-telegram/models"
)

// Pre-network guard failures. None of these reach the wire.
var (
	ErrNotLoggedIn    = errors.New("login required")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrAdminOnly      = errors.New("admin role required")
)

// Guard failures checked against freshly fetched state, so one read precedes
// the mutation.
var (
	ErrNotOwner       = errors.New("belongs to another user")
	ErrNotCancellable = errors.New("only pending orders can be cancelled")
)

// Checkout drives the order lifecycle for a chat: composing (the cart),
// a single guarded in-flight submission, then tracking by order id. The
// remote service owns pricing and status; the cart is only cleared once the
// service has confirmed the order.
type Checkout struct {
	api      *api.Client
	carts    *CartStore
	sessions *SessionStore

	mu       sync.Mutex
	inFlight map[int64]bool
}

func NewCheckout(client *api.Client, carts *CartStore, sessions *SessionStore) *Checkout {
	return &Checkout{
		api:      client,
		carts:    carts,
		sessions: sessions,
		inFlight: make(map[int64]bool),
	}
}

func (c *Checkout) begin(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[chatID] {
		return false
	}
	c.inFlight[chatID] = true
	return true
}

func (c *Checkout) end(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, chatID)
}

// Submit turns the chat's cart into an order. Unauthenticated or empty-cart
// submissions fail before any network call. A second Submit while one is in
// flight is rejected, not queued, so a double tap cannot place two orders.
// On failure the cart is left exactly as it was for a manual retry.
func (c *Checkout) Submit(ctx context.Context, chatID int64) (*models.Order, error) {
	user, ok := c.sessions.Current(chatID)
	if !ok {
		return nil, ErrNotLoggedIn
	}

	lines := c.carts.Lines(chatID)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if !c.begin(chatID) {
		return nil, ErrSubmitInFlight
	}
	defer c.end(chatID)

	items := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = models.OrderItem{Name: l.Item.Name, Price: l.Item.Price, Quantity: l.Qty}
	}

	order, err := c.api.CreateOrder(ctx, user.ID, items)
	if err != nil {
		return nil, err
	}

	c.carts.Clear(chatID)
	return order, nil
}

// OrdersForUser lists the session user's orders. Filtering happens
// client-side, matching what the service exposes.
func (c *Checkout) OrdersForUser(ctx context.Context, chatID int64) ([]models.Order, error) {
	user, ok := c.sessions.Current(chatID)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	orders, err := c.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	var own []models.Order
	for _, o := range orders {
		if o.UserID == user.ID {
			own = append(own, o)
		}
	}
	return own, nil
}

// PendingOrders lists every Pending order. Admin view.
func (c *Checkout) PendingOrders(ctx context.Context, chatID int64) ([]models.Order, error) {
	if !c.sessions.IsAdmin(chatID) {
		return nil, ErrAdminOnly
	}
	orders, err := c.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	var pending []models.Order
	for _, o := range orders {
		if o.Status == models.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	return pending, nil
}

// Send asks the service to move a Pending order to Sent. The caller drops the
// order from its pending view only when this returns nil.
func (c *Checkout) Send(ctx context.Context, chatID int64, orderID string) error {
	if !c.sessions.IsAdmin(chatID) {
		return ErrAdminOnly
	}
	return c.api.SendOrder(ctx, orderID)
}

func (c *Checkout) Receipt(ctx context.Context, orderID string) (*api.Receipt, error) {
	return c.api.FetchReceipt(ctx, orderID)
}

// Cancel moves one of the session user's Pending orders to Cancelled.
// Ownership and status are checked against the freshly fetched order, not the
// chat's last rendered view.
func (c *Checkout) Cancel(ctx context.Context, chatID int64, orderID string) error {
	user, ok := c.sessions.Current(chatID)
	if !ok {
		return ErrNotLoggedIn
	}
	order, err := c.api.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != user.ID {
		return ErrNotOwner
	}
	if order.Status != models.OrderStatusPending {
		return ErrNotCancellable
	}
	return c.api.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled)
}

// Discard deletes an order outright. Admin cleanup for the pending view.
func (c *Checkout) Discard(ctx context.Context, chatID int64, orderID string) error {
	if !c.sessions.IsAdmin(chatID) {
		return ErrAdminOnly
	}
	return c.api.DeleteOrder(ctx, orderID)
}
