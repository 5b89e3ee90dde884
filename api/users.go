package api

import (
	"context"
	"net/http"

	"resto-telegram/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a user account and returns the assigned profile.
func (c *Client) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	var out struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}
	req := registerRequest{Name: name, Email: email, Password: password, Role: role}
	if err := c.doJSON(ctx, http.MethodPost, "/users/", req, &out); err != nil {
		return nil, err
	}
	return &models.User{ID: out.UserID, Name: name, Email: email, Role: role}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and returns the user id and role the service reports.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
		Role    string `json:"role"`
	}
	req := loginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", req, &out); err != nil {
		return nil, err
	}
	return &models.User{ID: out.UserID, Email: email, Role: out.Role}, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+userID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword sets a new password for the account and returns the service's
// confirmation message.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	body := map[string]string{"email": email, "new_password": newPassword}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users/reset-password", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
