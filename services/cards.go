package services

import (
	"fmt"
	"strings"

	"resto-telegram/models"
)

// CardButton is one inline button (text + callback_data).
type CardButton struct {
	Text         string
	CallbackData string
}

// Card is the text and optional inline keyboard for a chat message.
type Card struct {
	Text    string
	Buttons [][]CardButton
}

// BuildCartCard renders the cart lines with the derived total and per-line
// remove buttons, plus checkout when non-empty.
func BuildCartCard(lines []CartLine, total float64) Card {
	if len(lines) == 0 {
		return Card{Text: "Your cart is empty."}
	}
	var sb strings.Builder
	sb.WriteString("Your cart:\n")
	for _, l := range lines {
		fmt.Fprintf(&sb, "- %s x%d = $%.2f\n", l.Item.Name, l.Qty, l.Item.Price*float64(l.Qty))
	}
	fmt.Fprintf(&sb, "\nTotal: $%.2f", total)

	var buttons [][]CardButton
	for _, l := range lines {
		buttons = append(buttons, []CardButton{
			{Text: "- " + l.Item.Name, CallbackData: "rm:" + l.Item.ID},
		})
	}
	buttons = append(buttons, []CardButton{{Text: "Checkout", CallbackData: "checkout"}})
	return Card{Text: sb.String(), Buttons: buttons}
}

// BuildOrderCard renders one order for its owner, with a receipt button and a
// cancel button while the order is still Pending.
func BuildOrderCard(o models.Order) Card {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order %s\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "- %s %d x $%.2f\n", it.Name, it.Quantity, it.Price)
	}
	fmt.Fprintf(&sb, "\nTotal: $%.2f\nStatus: %s", o.TotalPrice, o.Status)

	buttons := [][]CardButton{
		{{Text: "Receipt", CallbackData: "receipt:" + o.ID}},
	}
	if o.Status == models.OrderStatusPending {
		buttons = append(buttons, []CardButton{
			{Text: "Cancel order", CallbackData: "cancelord:" + o.ID},
		})
	}
	return Card{Text: sb.String(), Buttons: buttons}
}

// BuildPendingOrderCard renders one Pending order for the admin view with a
// send button.
func BuildPendingOrderCard(o models.Order) Card {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order %s (Pending)\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "- %s %d x $%.2f\n", it.Name, it.Quantity, it.Price)
	}
	fmt.Fprintf(&sb, "\nTotal: $%.2f", o.TotalPrice)

	buttons := [][]CardButton{
		{
			{Text: "Send order", CallbackData: "send:" + o.ID},
			{Text: "Discard", CallbackData: "discard:" + o.ID},
		},
	}
	return Card{Text: sb.String(), Buttons: buttons}
}

// BuildTableCard renders one table with a book or free button depending on
// occupancy.
func BuildTableCard(t models.Table) Card {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Table %d - %s", t.TableNumber, t.Status)
	if t.Booked {
		date := t.Date
		if date == "" {
			date = "-"
		}
		clock := t.Time
		if len(clock) >= 5 {
			clock = clock[:5]
		} else if clock == "" {
			clock = "-"
		}
		fmt.Fprintf(&sb, "\nDate: %s\nTime: %s", date, clock)
	}

	var buttons [][]CardButton
	if t.Booked {
		buttons = append(buttons, []CardButton{{Text: "Free table", CallbackData: "free:" + t.ID}})
	} else {
		buttons = append(buttons, []CardButton{{Text: "Book a table", CallbackData: "book"}})
	}
	return Card{Text: sb.String(), Buttons: buttons}
}

// BuildBookingCard renders one booking. Admins get an assign button while a
// pending booking has no table, then a confirm button once it has one; owners
// can cancel a booking that is still Pending.
func BuildBookingCard(bk models.Booking, admin bool) Card {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking %s\nDate: %s\nTime: %s\nStatus: %s", bk.ID, bk.Date, bk.Time, bk.Status)
	if len(bk.Tables) > 0 {
		sb.WriteString("\nTables:")
		for _, t := range bk.Tables {
			fmt.Fprintf(&sb, "\n- Table %d (%s)", t.TableNumber, t.Status)
		}
	}

	var buttons [][]CardButton
	if bk.Status == models.BookingStatusPending {
		switch {
		case admin && len(bk.Tables) == 0:
			buttons = append(buttons, []CardButton{{Text: "Assign table", CallbackData: "assign:" + bk.ID}})
		case admin:
			buttons = append(buttons, []CardButton{{Text: "Confirm", CallbackData: "confirmbk:" + bk.ID}})
		default:
			buttons = append(buttons, []CardButton{{Text: "Cancel booking", CallbackData: "cancelbk:" + bk.ID}})
		}
	}
	return Card{Text: sb.String(), Buttons: buttons}
}
