package sdk

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers returns one page of registered users.
func (c *Client) ListUsers(ctx context.Context, opts PageOptions) (*Page[User], error) {
	var page Page[User]
	if err := c.do(ctx, http.MethodGet, []string{"usuarios"}, opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser looks a user up by identity document.
func (c *Client) GetUser(ctx context.Context, documentType, documentNumber string) (*User, error) {
	if documentType == "" || documentNumber == "" {
		return nil, fmt.Errorf("document type and number are required")
	}
	var user User
	if err := c.do(ctx, http.MethodGet, []string{"usuarios", documentType, documentNumber}, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the principal of the token the client authenticates with.
func (c *Client) Me(ctx context.Context) (*Principal, error) {
	var p Principal
	if err := c.do(ctx, http.MethodGet, []string{"usuarios", "me"}, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateUser replaces a user's profile and password. Roles are unchanged.
func (c *Client) UpdateUser(ctx context.Context, input UpdateUserInput) (*User, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	var user User
	if err := c.do(ctx, http.MethodPut, []string{"usuarios"}, nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user holding the given document.
func (c *Client) DeleteUser(ctx context.Context, documentType, documentNumber string) error {
	if documentType == "" || documentNumber == "" {
		return fmt.Errorf("document type and number are required")
	}
	return c.do(ctx, http.MethodDelete, []string{"usuarios", documentType, documentNumber}, nil, nil, nil)
}
