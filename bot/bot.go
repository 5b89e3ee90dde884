package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"resto-telegram/api"
	"resto-telegram/config"
	"resto-telegram/models"
	"resto-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const requestTimeout = 30 * time.Second

type Bot struct {
	tg      *tgbotapi.BotAPI
	cfg     *config.Config
	client  *api.Client
	metrics *Metrics

	carts    *services.CartStore
	sessions *services.SessionStore
	checkout *services.Checkout
	bookings *services.Bookings
	throttle *services.LoginThrottle

	// Last fetched menu and table list per chat. Add-to-cart and the
	// create-table guards resolve against what the user is looking at.
	viewMenu   map[int64][]models.MenuItem
	viewTables map[int64][]models.Table
	viewMu     sync.RWMutex

	flows   map[int64]*flow
	flowsMu sync.Mutex
}

func New(cfg *config.Config, client *api.Client) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	tg.Debug = cfg.Telegram.Debug

	sessions := services.NewSessionStore()
	carts := services.NewCartStore()

	return &Bot{
		tg:         tg,
		cfg:        cfg,
		client:     client,
		metrics:    NewMetrics(),
		carts:      carts,
		sessions:   sessions,
		checkout:   services.NewCheckout(client, carts, sessions),
		bookings:   services.NewBookings(client, sessions),
		throttle:   services.NewLoginThrottle(),
		viewMenu:   make(map[int64][]models.MenuItem),
		viewTables: make(map[int64][]models.Table),
		flows:      make(map[int64]*flow),
	}, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Home"},
		tgbotapi.BotCommand{Command: "menu", Description: "Browse the menu"},
		tgbotapi.BotCommand{Command: "cart", Description: "Your cart"},
		tgbotapi.BotCommand{Command: "orders", Description: "Your orders"},
		tgbotapi.BotCommand{Command: "tables", Description: "Tables and bookings"},
		tgbotapi.BotCommand{Command: "book", Description: "Book a table"},
		tgbotapi.BotCommand{Command: "bookings", Description: "Your bookings"},
		tgbotapi.BotCommand{Command: "login", Description: "Log in"},
		tgbotapi.BotCommand{Command: "register", Description: "Create an account"},
		tgbotapi.BotCommand{Command: "logout", Description: "Log out"},
	)
	_, err := b.tg.Request(cfg)
	return err
}

// Start consumes the update channel until ctx is cancelled. Updates are
// handled one at a time; every remote call gets its own timeout context.
func (b *Bot) Start(ctx context.Context) error {
	_ = b.setBotCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.CallbackQuery != nil {
				b.metrics.CallbacksProcessed.Inc()
				b.handleCallback(update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			b.metrics.MessagesProcessed.Inc()
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		b.cancelFlow(chatID)
		b.handleStart(chatID)
	case text == "/menu":
		b.handleMenu(chatID)
	case text == "/cart":
		b.handleCart(chatID)
	case text == "/orders":
		b.handleOrders(chatID)
	case text == "/pending":
		b.handlePending(chatID)
	case text == "/tables":
		b.handleTables(chatID)
	case text == "/bookings":
		b.handleBookings(chatID)
	case text == "/book":
		b.startBookingFlow(chatID)
	case text == "/login":
		b.startLoginFlow(chatID)
	case text == "/register":
		b.startRegisterFlow(chatID)
	case text == "/resetpw":
		b.startResetFlow(chatID)
	case text == "/logout":
		b.handleLogout(chatID)
	case text == "/profile":
		b.handleProfile(chatID)
	case text == "/newtable":
		b.startNewTableFlow(chatID)
	case text == "/newdish":
		b.startNewDishFlow(chatID)
	case text == "/cancel":
		b.cancelFlow(chatID)
		b.send(chatID, "Cancelled.")
	default:
		if b.hasFlow(chatID) {
			b.handleFlowInput(chatID, text)
			return
		}
		b.send(chatID, "I didn't get that. Try /menu, /tables or /start.")
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	b.tg.Request(tgbotapi.NewCallback(cq.ID, ""))

	switch {
	case data == "menu":
		b.handleMenu(chatID)
	case data == "cart":
		b.handleCart(chatID)
	case data == "tables":
		b.handleTables(chatID)
	case data == "orders":
		b.handleOrders(chatID)
	case data == "login":
		b.startLoginFlow(chatID)
	case strings.HasPrefix(data, "cat:"):
		b.handleCategory(chatID, strings.TrimPrefix(data, "cat:"))
	case strings.HasPrefix(data, "add:"):
		b.handleAdd(chatID, strings.TrimPrefix(data, "add:"))
	case strings.HasPrefix(data, "rm:"):
		b.handleRemove(chatID, strings.TrimPrefix(data, "rm:"))
	case data == "checkout":
		b.handleCheckout(chatID)
	case strings.HasPrefix(data, "send:"):
		b.handleSend(chatID, strings.TrimPrefix(data, "send:"))
	case strings.HasPrefix(data, "discard:"):
		b.handleDiscard(chatID, strings.TrimPrefix(data, "discard:"))
	case strings.HasPrefix(data, "cancelord:"):
		b.handleCancelOrder(chatID, strings.TrimPrefix(data, "cancelord:"))
	case strings.HasPrefix(data, "receipt:"):
		b.handleReceipt(chatID, strings.TrimPrefix(data, "receipt:"))
	case data == "book":
		b.startBookingFlow(chatID)
	case strings.HasPrefix(data, "free:"):
		b.handleFree(chatID, strings.TrimPrefix(data, "free:"))
	case strings.HasPrefix(data, "assign:"):
		b.handleAssignPick(chatID, strings.TrimPrefix(data, "assign:"))
	case strings.HasPrefix(data, "assignsel:"):
		b.handleAssignConfirm(chatID, strings.TrimPrefix(data, "assignsel:"))
	case strings.HasPrefix(data, "confirmbk:"):
		b.handleConfirmBooking(chatID, strings.TrimPrefix(data, "confirmbk:"))
	case strings.HasPrefix(data, "cancelbk:"):
		b.handleCancelBooking(chatID, strings.TrimPrefix(data, "cancelbk:"))
	}
}

func (b *Bot) handleStart(chatID int64) {
	text := "Welcome to the restaurant bot.\nBrowse the menu, order food and book a table."
	if user, ok := b.sessions.Current(chatID); ok {
		text = fmt.Sprintf("Welcome back, %s.", user.Name)
		if user.Name == "" {
			text = "Welcome back."
		}
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("Menu", "menu"),
			tgbotapi.NewInlineKeyboardButtonData("Cart", "cart"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("Tables", "tables"),
			tgbotapi.NewInlineKeyboardButtonData("My orders", "orders"),
		},
	}
	if _, ok := b.sessions.Current(chatID); !ok {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Log in", "login"),
		})
	}
	b.sendWithInline(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleMenu(chatID int64) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	categories, err := b.client.FetchCategories(ctx)
	b.observe("fetch_categories", start)
	if err != nil {
		b.fail(chatID, "Could not load the menu. Please try again later.", err)
		return
	}
	if len(categories) == 0 {
		b.send(chatID, "The menu is empty right now.")
		return
	}

	var row []tgbotapi.InlineKeyboardButton
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, cat := range categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(cat, "cat:"+cat))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Cart", "cart"),
	})

	text := "Pick a category:"
	if !b.carts.Empty(chatID) {
		text += fmt.Sprintf("\n\nCart total: $%.2f", b.carts.Total(chatID))
	}
	b.sendWithInline(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleCategory(chatID int64, category string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	items, err := b.client.FetchMenu(ctx, category)
	b.observe("fetch_menu", start)
	if err != nil {
		b.fail(chatID, "Could not load the menu. Please try again later.", err)
		return
	}

	b.viewMu.Lock()
	b.viewMenu[chatID] = items
	b.viewMu.Unlock()

	if len(items) == 0 {
		b.send(chatID, "Nothing in this category yet.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s - $%.2f", item.Name, item.Price),
				"add:"+item.ID,
			),
		))
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Back", "menu"),
		tgbotapi.NewInlineKeyboardButtonData("Cart", "cart"),
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", category)
	for _, item := range items {
		fmt.Fprintf(&sb, "\n%s - $%.2f\n%s\n", item.Name, item.Price, item.Description)
	}
	b.sendWithInline(chatID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// handleAdd resolves the tapped item against the last menu the chat saw.
func (b *Bot) handleAdd(chatID int64, itemID string) {
	b.viewMu.RLock()
	items := b.viewMenu[chatID]
	b.viewMu.RUnlock()

	for _, item := range items {
		if item.ID == itemID {
			b.carts.Add(chatID, item)
			b.send(chatID, fmt.Sprintf("Added %s. Cart total: $%.2f", item.Name, b.carts.Total(chatID)))
			return
		}
	}
	b.send(chatID, "That item is no longer on the menu. Open /menu again.")
}

func (b *Bot) handleRemove(chatID int64, itemID string) {
	b.carts.Remove(chatID, itemID)
	b.handleCart(chatID)
}

func (b *Bot) handleCart(chatID int64) {
	card := services.BuildCartCard(b.carts.Lines(chatID), b.carts.Total(chatID))
	b.sendCard(chatID, card)
}

func (b *Bot) handleCheckout(chatID int64) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	order, err := b.checkout.Submit(ctx, chatID)
	b.observe("create_order", start)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotLoggedIn):
			b.send(chatID, "Please /login before checking out.")
		case errors.Is(err, services.ErrEmptyCart):
			b.send(chatID, "Your cart is empty. Add something from /menu first.")
		case errors.Is(err, services.ErrSubmitInFlight):
			// Double tap while the first submission is on the wire: no-op.
		default:
			b.fail(chatID, "Checkout failed. Your cart is unchanged, please try again.", err)
		}
		return
	}

	b.metrics.OrdersPlaced.Inc()
	b.send(chatID, fmt.Sprintf("Order placed. Order %s, total $%.2f.", order.ID, order.TotalPrice))
}

func (b *Bot) handleOrders(chatID int64) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	orders, err := b.checkout.OrdersForUser(ctx, chatID)
	b.observe("list_orders", start)
	if err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			b.send(chatID, "Please /login to see your orders.")
			return
		}
		b.fail(chatID, "Could not load your orders.", err)
		return
	}
	if len(orders) == 0 {
		b.send(chatID, "No orders yet.")
		return
	}
	for _, o := range orders {
		b.sendCard(chatID, services.BuildOrderCard(o))
	}
}

func (b *Bot) handlePending(chatID int64) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	orders, err := b.checkout.PendingOrders(ctx, chatID)
	b.observe("list_orders", start)
	if err != nil {
		if errors.Is(err, services.ErrAdminOnly) {
			b.send(chatID, "Admins only.")
			return
		}
		b.fail(chatID, "Could not load pending orders.", err)
		return
	}
	if len(orders) == 0 {
		b.send(chatID, "No pending orders.")
		return
	}
	for _, o := range orders {
		b.sendCard(chatID, services.BuildPendingOrderCard(o))
	}
}

func (b *Bot) handleSend(chatID int64, orderID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	err := b.checkout.Send(ctx, chatID, orderID)
	b.observe("send_order", start)
	if err != nil {
		if errors.Is(err, services.ErrAdminOnly) {
			b.send(chatID, "Admins only.")
			return
		}
		b.fail(chatID, "Could not send the order.", err)
		return
	}
	b.metrics.OrdersSent.Inc()
	b.send(chatID, fmt.Sprintf("Order %s sent.", orderID))
	// Re-render from a fresh fetch so the sent order drops out of the view.
	b.handlePending(chatID)
}

func (b *Bot) handleDiscard(chatID int64, orderID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	err := b.checkout.Discard(ctx, chatID, orderID)
	b.observe("delete_order", start)
	if err != nil {
		if errors.Is(err, services.ErrAdminOnly) {
			b.send(chatID, "Admins only.")
			return
		}
		b.fail(chatID, "Could not discard the order.", err)
		return
	}
	b.send(chatID, fmt.Sprintf("Order %s discarded.", orderID))
	b.handlePending(chatID)
}

func (b *Bot) handleCancelOrder(chatID int64, orderID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	err := b.checkout.Cancel(ctx, chatID, orderID)
	b.observe("cancel_order", start)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotLoggedIn):
			b.send(chatID, "Please /login first.")
		case errors.Is(err, services.ErrNotOwner):
			b.send(chatID, "That order belongs to another account.")
		case errors.Is(err, services.ErrNotCancellable):
			b.send(chatID, "Only pending orders can be cancelled.")
		default:
			b.fail(chatID, "Could not cancel the order.", err)
		}
		return
	}
	b.send(chatID, fmt.Sprintf("Order %s cancelled.", orderID))
	b.handleOrders(chatID)
}

func (b *Bot) handleReceipt(chatID int64, orderID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	receipt, err := b.checkout.Receipt(ctx, orderID)
	b.observe("fetch_receipt", start)
	if err != nil {
		b.fail(chatID, "Could not fetch the receipt.", err)
		return
	}

	if strings.Contains(receipt.ContentType, "pdf") {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  "receipt-" + orderID + ".pdf",
			Bytes: receipt.Data,
		})
		if _, err := b.tg.Send(doc); err != nil {
			log.Printf("send receipt: %v", err)
		}
		return
	}
	// JSON fallback: show it as text rather than an attachment.
	b.send(chatID, "Receipt for order "+orderID+":\n"+string(receipt.Data))
}

// handleProfile shows the account as the service currently knows it, not the
// cached session copy.
func (b *Bot) handleProfile(chatID int64) {
	user, ok := b.sessions.Current(chatID)
	if !ok {
		b.send(chatID, "Please /login first.")
		return
	}

	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	profile, err := b.client.GetUser(ctx, user.ID)
	b.observe("get_user", start)
	if err != nil {
		b.fail(chatID, "Could not load your profile.", err)
		return
	}
	b.send(chatID, fmt.Sprintf("Name: %s\nEmail: %s\nRole: %s", profile.Name, profile.Email, profile.Role))
}

func (b *Bot) handleLogout(chatID int64) {
	b.sessions.Logout(chatID)
	b.carts.Clear(chatID)
	b.send(chatID, "Logged out.")
}

func (b *Bot) reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (b *Bot) observe(operation string, start time.Time) {
	b.metrics.APICallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

// fail logs the cause and shows the user a fixed message; no failure path is
// silent.
func (b *Bot) fail(chatID int64, text string, err error) {
	b.metrics.ErrorsTotal.Inc()
	log.Printf("chat %d: %v", chatID, err)
	b.send(chatID, text)
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.tg.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) sendCard(chatID int64, card services.Card) {
	if len(card.Buttons) == 0 {
		b.send(chatID, card.Text)
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range card.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
		}
		rows = append(rows, btns)
	}
	b.sendWithInline(chatID, card.Text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}
