package api

import (
	"context"
	"net/http"

	"resto-telegram/models"
)

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.doJSON(ctx, http.MethodGet, "/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	var table models.Table
	if err := c.doJSON(ctx, http.MethodGet, "/tables/"+tableID, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (c *Client) ListFreeTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.doJSON(ctx, http.MethodGet, "/tables/free", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// CreateTable registers a new table number. Administrative.
func (c *Client) CreateTable(ctx context.Context, tableNumber int) (*models.Table, error) {
	body := map[string]int{"table_number": tableNumber}
	var table models.Table
	if err := c.doJSON(ctx, http.MethodPost, "/tables/create", body, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// FreeTable releases a table. Freeing can touch every table tied to the same
// booking, so callers must refetch the list instead of patching it locally.
func (c *Client) FreeTable(ctx context.Context, tableID string) (*models.Table, error) {
	var table models.Table
	if err := c.doJSON(ctx, http.MethodPut, "/tables/free/"+tableID, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}
