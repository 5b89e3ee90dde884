package api

import (
	"context"
	"net/http"
	"net/url"

	"resto-telegram/models"
)

// FetchMenu lists menu items, optionally filtered by category.
func (c *Client) FetchMenu(ctx context.Context, category string) ([]models.MenuItem, error) {
	path := "/menu"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var items []models.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/menu/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CreateMenuItem adds a dish. Administrative.
func (c *Client) CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	body := map[string]interface{}{
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"image_url":   item.ImageURL,
		"category":    item.Category,
	}
	var created models.MenuItem
	if err := c.doJSON(ctx, http.MethodPost, "/menu/", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
