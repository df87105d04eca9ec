package sdk

import (
	"context"
	"fmt"
	"net/http"
)

// ListRoles returns one page of the role registry.
func (c *Client) ListRoles(ctx context.Context, opts PageOptions) (*Page[Role], error) {
	var page Page[Role]
	if err := c.do(ctx, http.MethodGet, []string{"roles"}, opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAllRoles walks every page of the role registry.
func (c *Client) ListAllRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	opts := PageOptions{PageSize: 100}
	for {
		page, err := c.ListRoles(ctx, opts)
		if err != nil {
			return nil, err
		}
		roles = append(roles, page.Content...)
		if !page.HasNext() {
			return roles, nil
		}
		opts.PageNo++
	}
}

// CreateRole adds a role. The server upper-cases the name.
func (c *Client) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	var role Role
	if err := c.do(ctx, http.MethodPost, []string{"roles"}, nil, roleInput{Name: name, Description: description}, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole replaces the description of an existing role.
func (c *Client) UpdateRole(ctx context.Context, name, description string) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	var role Role
	if err := c.do(ctx, http.MethodPut, []string{"roles"}, nil, roleInput{Name: name, Description: description}, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole removes a role and its assignments.
func (c *Client) DeleteRole(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("role name is required")
	}
	return c.do(ctx, http.MethodDelete, []string{"roles", name}, nil, nil, nil)
}
