package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resto-telegram/models"
	"resto-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleTables(chatID int64) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	tables, err := b.bookings.Tables(ctx)
	b.observe("list_tables", start)
	if err != nil {
		b.fail(chatID, "Could not load the tables.", err)
		return
	}

	b.viewMu.Lock()
	b.viewTables[chatID] = tables
	b.viewMu.Unlock()

	if len(tables) == 0 {
		text := "No tables yet."
		if b.sessions.IsAdmin(chatID) {
			text += " Use /newtable to create one."
		}
		b.send(chatID, text)
		return
	}

	for _, t := range tables {
		b.sendCard(chatID, services.BuildTableCard(t))
	}
	if b.sessions.IsAdmin(chatID) {
		b.send(chatID, "Use /newtable to create a table.")
	}
}

// handleFree releases a table and re-renders from the refetched list; one
// booking can span several tables, so the local list is never patched.
func (b *Bot) handleFree(chatID int64, tableID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	tables, err := b.bookings.Free(ctx, tableID)
	b.observe("free_table", start)
	if err != nil {
		b.fail(chatID, "Could not free the table.", err)
		return
	}

	b.viewMu.Lock()
	b.viewTables[chatID] = tables
	b.viewMu.Unlock()

	b.send(chatID, "Table freed.")
	for _, t := range tables {
		b.sendCard(chatID, services.BuildTableCard(t))
	}
}

func (b *Bot) handleBookings(chatID int64) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	admin := b.sessions.IsAdmin(chatID)
	start := time.Now()
	var (
		bookings []models.Booking
		err      error
	)
	if admin {
		bookings, err = b.bookings.AllBookings(ctx, chatID)
	} else {
		bookings, err = b.bookings.BookingsForUser(ctx, chatID)
	}
	b.observe("list_bookings", start)
	if err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			b.send(chatID, "Please /login to see your bookings.")
			return
		}
		b.fail(chatID, "Could not load bookings.", err)
		return
	}
	if len(bookings) == 0 {
		b.send(chatID, "No bookings. Use /book to book a table.")
		return
	}
	for _, bk := range bookings {
		b.sendCard(chatID, services.BuildBookingCard(bk, admin))
	}
}

// handleAssignPick shows free tables as buttons for a pending booking.
func (b *Bot) handleAssignPick(chatID int64, bookingID string) {
	if !b.sessions.IsAdmin(chatID) {
		b.send(chatID, "Admins only.")
		return
	}

	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	tables, err := b.bookings.FreeTables(ctx)
	b.observe("list_free_tables", start)
	if err != nil {
		b.fail(chatID, "Could not load the tables.", err)
		return
	}

	var row []tgbotapi.InlineKeyboardButton
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range tables {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Table %d", t.TableNumber),
			fmt.Sprintf("assignsel:%s:%d", bookingID, t.TableNumber),
		))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		b.send(chatID, "No free tables to assign.")
		return
	}
	b.sendWithInline(chatID, "Pick a table for this booking:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleAssignConfirm(chatID int64, data string) {
	if !b.sessions.IsAdmin(chatID) {
		b.send(chatID, "Admins only.")
		return
	}
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}
	bookingID := parts[0]
	tableNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	bookings, err := b.bookings.AssignTable(ctx, bookingID, tableNumber)
	b.observe("assign_table", start)
	if err != nil {
		b.fail(chatID, "Could not assign the table.", err)
		return
	}
	b.send(chatID, fmt.Sprintf("Table %d assigned.", tableNumber))
	for _, bk := range bookings {
		b.sendCard(chatID, services.BuildBookingCard(bk, true))
	}
}

func (b *Bot) handleConfirmBooking(chatID int64, bookingID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	bookings, err := b.bookings.Confirm(ctx, chatID, bookingID)
	b.observe("confirm_booking", start)
	if err != nil {
		if errors.Is(err, services.ErrAdminOnly) {
			b.send(chatID, "Admins only.")
			return
		}
		b.fail(chatID, "Could not confirm the booking.", err)
		return
	}
	b.send(chatID, "Booking confirmed.")
	for _, bk := range bookings {
		b.sendCard(chatID, services.BuildBookingCard(bk, true))
	}
}

func (b *Bot) handleCancelBooking(chatID int64, bookingID string) {
	ctx, cancel := b.reqCtx()
	defer cancel()

	start := time.Now()
	bookings, err := b.bookings.Cancel(ctx, chatID, bookingID)
	b.observe("cancel_booking", start)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotLoggedIn):
			b.send(chatID, "Please /login first.")
		case errors.Is(err, services.ErrNotOwner):
			b.send(chatID, "That booking belongs to another account.")
		default:
			b.fail(chatID, "Could not cancel the booking.", err)
		}
		return
	}
	b.send(chatID, "Booking cancelled.")
	if len(bookings) == 0 {
		b.send(chatID, "No bookings left. Use /book to book a table.")
		return
	}
	for _, bk := range bookings {
		b.sendCard(chatID, services.BuildBookingCard(bk, false))
	}
}
