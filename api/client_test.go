package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resto-telegram/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error key", status: 404, body: `{"error":"Order not found"}`, wantMsg: "Order not found"},
		{name: "message key", status: 400, body: `{"message":"Invalid date"}`, wantMsg: "Invalid date"},
		{name: "empty body", status: 500, body: ``, wantMsg: ""},
		{name: "non-json body", status: 502, body: `<html>bad gateway</html>`, wantMsg: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetOrder(context.Background(), "o1")
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
		})
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			UserID string             `json:"user_id"`
			Items  []models.OrderItem `json:"order_items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u1", req.UserID)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "Burger", req.Items[0].Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Order{
			ID: "o1", UserID: "u1", TotalPrice: 10.00, Status: models.OrderStatusPending,
			Items: req.Items,
		})
	}))
	defer srv.Close()

	order, err := New(srv.URL).CreateOrder(context.Background(), "u1", []models.OrderItem{
		{Name: "Burger", Price: 5.00, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 10.00, order.TotalPrice)
}

func TestCreateBookingSoftRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200, not an error status: the refusal rides in the payload.
		json.NewEncoder(w).Encode(map[string]string{
			"message": "You have reached the maximum of 10 bookings",
		})
	}))
	defer srv.Close()

	res, err := New(srv.URL).CreateBooking(context.Background(), "u1", "15-09-2026", "18:30")
	require.NoError(t, err)
	assert.Nil(t, res.Booking)
	assert.Equal(t, "You have reached the maximum of 10 bookings", res.Rejection)
}

func TestCreateBookingSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Booking{
			ID: "b1", UserID: "u1", Date: "2026-09-15", Time: "18:30:00",
			Status: models.BookingStatusPending,
		})
	}))
	defer srv.Close()

	res, err := New(srv.URL).CreateBooking(context.Background(), "u1", "15-09-2026", "18:30")
	require.NoError(t, err)
	require.NotNil(t, res.Booking)
	assert.Empty(t, res.Rejection)
	assert.Equal(t, "b1", res.Booking.ID)
}

func TestCreateBookingUnrecognizedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"surprise": true}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateBooking(context.Background(), "u1", "15-09-2026", "18:30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized booking response")
}

func TestFetchReceiptContentType(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/o1/receipt", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	receipt, err := New(srv.URL).FetchReceipt(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", receipt.ContentType)
	assert.Equal(t, pdf, receipt.Data)
}

func TestFetchMenuCategoryQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu", r.URL.Path)
		assert.Equal(t, "Main Course", r.URL.Query().Get("category"))
		json.NewEncoder(w).Encode([]models.MenuItem{
			{ID: "m1", Name: "Burger", Price: 5.00, Category: "Main Course"},
		})
	}))
	defer srv.Close()

	items, err := New(srv.URL).FetchMenu(context.Background(), "Main Course")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Name)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Login successful",
			"user_id": "u1",
			"role":    models.RoleAdmin,
		})
	}))
	defer srv.Close()

	user, err := New(srv.URL).Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "a@b.c", user.Email)
	assert.True(t, user.IsAdmin())
}

func TestDetailFetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/tables/t1":
			json.NewEncoder(w).Encode(models.Table{ID: "t1", TableNumber: 4, Booked: true})
		case "/bookings/b1":
			json.NewEncoder(w).Encode(models.Booking{ID: "b1", Status: models.BookingStatusPending})
		case "/users/u1":
			json.NewEncoder(w).Encode(models.User{ID: "u1", Name: "Ada", Role: models.RoleUser})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	table, err := c.GetTable(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 4, table.TableNumber)
	assert.True(t, table.Booked)

	booking, err := c.GetBooking(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	user, err := c.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
}

func TestListFreeTables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tables/free", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Table{{ID: "t1", TableNumber: 2, Booked: false}})
	}))
	defer srv.Close()

	tables, err := New(srv.URL).ListFreeTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.False(t, tables[0].Booked)
}

func TestStatusUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/orders/o1":
			assert.Equal(t, models.OrderStatusCancelled, body.Status)
			json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
		case "/bookings/b1":
			assert.Equal(t, models.BookingStatusConfirmed, body.Status)
			json.NewEncoder(w).Encode(models.Booking{ID: "b1", Status: body.Status})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	require.NoError(t, c.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusCancelled))

	booking, err := c.UpdateBookingStatus(context.Background(), "b1", models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestDeletes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeleteOrder(context.Background(), "o1"))
	require.NoError(t, c.DeleteBooking(context.Background(), "b1"))
	assert.Equal(t, []string{"/orders/o1", "/bookings/b1"}, paths)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tables", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Table{})
	}))
	defer srv.Close()

	_, err := New(srv.URL + "/").ListTables(context.Background())
	require.NoError(t, err)
}
