package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resto-telegram/models"
	"resto-telegram/services"
)

// flow is a pending multi-step text input for a chat (login, booking, ...).
// Only one flow is active per chat; /cancel or /start aborts it.
type flow struct {
	kind string
	step int
	data map[string]string
}

const (
	flowLogin    = "login"
	flowRegister = "register"
	flowReset    = "resetpw"
	flowBook     = "book"
	flowNewTable = "newtable"
	flowNewDish  = "newdish"
)

func (b *Bot) setFlow(chatID int64, kind string) {
	b.flowsMu.Lock()
	defer b.flowsMu.Unlock()
	b.flows[chatID] = &flow{kind: kind, data: make(map[string]string)}
}

func (b *Bot) getFlow(chatID int64) *flow {
	b.flowsMu.Lock()
	defer b.flowsMu.Unlock()
	return b.flows[chatID]
}

func (b *Bot) hasFlow(chatID int64) bool {
	return b.getFlow(chatID) != nil
}

func (b *Bot) cancelFlow(chatID int64) {
	b.flowsMu.Lock()
	defer b.flowsMu.Unlock()
	delete(b.flows, chatID)
}

func (b *Bot) handleFlowInput(chatID int64, text string) {
	f := b.getFlow(chatID)
	if f == nil {
		return
	}
	switch f.kind {
	case flowLogin:
		b.loginStep(chatID, f, text)
	case flowRegister:
		b.registerStep(chatID, f, text)
	case flowReset:
		b.resetStep(chatID, f, text)
	case flowBook:
		b.bookStep(chatID, f, text)
	case flowNewTable:
		b.newTableStep(chatID, f, text)
	case flowNewDish:
		b.newDishStep(chatID, f, text)
	}
}

// --- login ---

func (b *Bot) startLoginFlow(chatID int64) {
	if _, ok := b.sessions.Current(chatID); ok {
		b.send(chatID, "You are already logged in. /logout first to switch accounts.")
		return
	}
	b.setFlow(chatID, flowLogin)
	b.send(chatID, "Your email:")
}

func (b *Bot) loginStep(chatID int64, f *flow, text string) {
	switch f.step {
	case 0:
		f.data["email"] = text
		f.step = 1
		b.send(chatID, "Your password:")
	case 1:
		b.cancelFlow(chatID)
		if wait := b.throttle.WaitSeconds(chatID); wait > 0 {
			b.send(chatID, fmt.Sprintf("Too many attempts. Try again in %d seconds.", wait))
			return
		}

		ctx, cancel := b.reqCtx()
		defer cancel()

		start := time.Now()
		user, err := b.client.Login(ctx, f.data["email"], text)
		b.observe("login", start)
		if err != nil {
			b.throttle.RecordFailure(chatID)
			b.fail(chatID, "Login failed. Check your email and password, then /login again.", err)
			return
		}
		b.throttle.RecordSuccess(chatID)
		b.sessions.Login(chatID, *user)
		b.send(chatID, "Logged in.")
		b.handleStart(chatID)
	}
}

// --- register ---

func (b *Bot) startRegisterFlow(chatID int64) {
	b.setFlow(chatID, flowRegister)
	b.send(chatID, "Your name:")
}

func (b *Bot) registerStep(chatID int64, f *flow, text string) {
	switch f.step {
	case 0:
		f.data["name"] = text
		f.step = 1
		b.send(chatID, "Your email:")
	case 1:
		f.data["email"] = text
		f.step = 2
		prompt := "Choose a password (at least 6 characters)."
		if pw, err := services.SuggestPassword(); err == nil {
			prompt += "\nSuggestion: " + pw
		}
		b.send(chatID, prompt)
	case 2:
		if err := services.ValidatePassword(text); err != nil {
			b.send(chatID, err.Error()+" Try another one:")
			return
		}
		b.cancelFlow(chatID)

		ctx, cancel := b.reqCtx()
		defer cancel()

		start := time.Now()
		user, err := b.client.Register(ctx, f.data["name"], f.data["email"], text, models.RoleUser)
		b.observe("register", start)
		if err != nil {
			b.fail(chatID, "Registration failed. /register to try again.", err)
			return
		}
		b.sessions.Login(chatID, *user)
		b.send(chatID, "Account created, you are logged in.")
		b.handleStart(chatID)
	}
}

// --- reset password ---

func (b *Bot) startResetFlow(chatID int64) {
	b.setFlow(chatID, flowReset)
	b.send(chatID, "Account email:")
}

func (b *Bot) resetStep(chatID int64, f *flow, text string) {
	switch f.step {
	case 0:
		f.data["email"] = text
		f.step = 1
		b.send(chatID, "New password (at least 6 characters):")
	case 1:
		if err := services.ValidatePassword(text); err != nil {
			b.send(chatID, err.Error()+" Try another one:")
			return
		}
		b.cancelFlow(chatID)

		ctx, cancel := b.reqCtx()
		defer cancel()

		start := time.Now()
		msg, err := b.client.ResetPassword(ctx, f.data["email"], text)
		b.observe("reset_password", start)
		if err != nil {
			b.fail(chatID, "Password reset failed.", err)
			return
		}
		if msg == "" {
			msg = "Password updated."
		}
		b.send(chatID, msg)
	}
}

// --- booking ---

func (b *Bot) startBookingFlow(chatID int64) {
	if _, ok := b.sessions.Current(chatID); !ok {
		b.send(chatID, "Please /login before booking a table.")
		return
	}
	b.setFlow(chatID, flowBook)
	b.send(chatID, "Booking date (YYYY-MM-DD):")
}

func (b *Bot) bookStep(chatID int64, f *flow, text string) {
	switch f.step {
	case 0:
		if _, err := services.NormalizeDate(text); err != nil {
			b.send(chatID, err.Error())
			return
		}
		f.data["date"] = text
		f.step = 1
		b.send(chatID, "Booking time (HH:MM):")
	case 1:
		if _, err := time.Parse("15:04", text); err != nil {
			b.send(chatID, "Invalid time, use HH:MM (e.g. 18:30).")
			return
		}
		b.cancelFlow(chatID)

		ctx, cancel := b.reqCtx()
		defer cancel()

		start := time.Now()
		booking, err := b.bookings.Book(ctx, chatID, f.data["date"], text)
		b.observe("create_booking", start)
		if err != nil {
			var rejected *services.RejectedError
			switch {
			case errors.As(err, &rejected):
				// Business refusal from the service; show its message verbatim.
				b.metrics.BookingsRejected.Inc()
				b.send(chatID, rejected.Message)
			default:
				b.fail(chatID, "Booking failed. Please try again.", err)
			}
			return
		}
		b.metrics.BookingsCreated.Inc()
		b.send(chatID, fmt.Sprintf("Booking placed for %s at %s, status %s. An admin will assign your table.",
			booking.Date, booking.Time, booking.Status))
	}
}

// --- create table (admin) ---

func (b *Bot) startNewTableFlow(chatID int64) {
	if !b.sessions.IsAdmin(chatID) {
		b.send(chatID, "Admins only.")
		return
	}
	b.setFlow(chatID, flowNewTable)
	b.send(chatID, "New table number:")
}

func (b *Bot) newTableStep(chatID int64, f *flow, text string) {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || number <= 0 {
		b.send(chatID, "Table number must be a positive integer.")
		return
	}
	b.cancelFlow(chatID)

	b.viewMu.RLock()
	current := b.viewTables[chatID]
	b.viewMu.RUnlock()

	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	table, err := b.bookings.CreateTable(ctx, chatID, current, number)
	b.observe("create_table", start)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTableExists):
			b.send(chatID, "Table number already exists!")
		case errors.Is(err, services.ErrTableLimit):
			b.send(chatID, fmt.Sprintf("Table limit of %d reached.", services.MaxTables))
		case errors.Is(err, services.ErrAdminOnly):
			b.send(chatID, "Admins only.")
		default:
			b.fail(chatID, "Could not create the table.", err)
		}
		return
	}
	b.send(chatID, fmt.Sprintf("Table %d created.", table.TableNumber))
	b.handleTables(chatID)
}

// --- create menu item (admin) ---

func (b *Bot) startNewDishFlow(chatID int64) {
	if !b.sessions.IsAdmin(chatID) {
		b.send(chatID, "Admins only.")
		return
	}
	b.setFlow(chatID, flowNewDish)
	b.send(chatID, "Dish name:")
}

func (b *Bot) newDishStep(chatID int64, f *flow, text string) {
	switch f.step {
	case 0:
		f.data["name"] = text
		f.step = 1
		b.send(chatID, "Description:")
	case 1:
		f.data["description"] = text
		f.step = 2
		b.send(chatID, "Price (e.g. 9.99):")
	case 2:
		price, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || price < 0 {
			b.send(chatID, "Price must be a non-negative number.")
			return
		}
		f.data["price"] = text
		f.step = 3
		b.send(chatID, "Category:")
	case 3:
		f.data["category"] = text
		f.step = 4
		b.send(chatID, "Image URL:")
	case 4:
		b.cancelFlow(chatID)
		price, _ := strconv.ParseFloat(strings.TrimSpace(f.data["price"]), 64)

		ctx, cancel := b.reqCtx()
		defer cancel()

		start := time.Now()
		item, err := b.client.CreateMenuItem(ctx, models.MenuItem{
			Name:        f.data["name"],
			Description: f.data["description"],
			Price:       price,
			Category:    f.data["category"],
			ImageURL:    text,
		})
		b.observe("create_menu_item", start)
		if err != nil {
			b.fail(chatID, "Could not create the dish.", err)
			return
		}
		b.send(chatID, fmt.Sprintf("%s added to the menu at $%.2f.", item.Name, item.Price))
	}
}
