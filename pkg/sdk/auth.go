package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Login exchanges an email and password for a token pair. Wrong password and
// unknown email fail identically with a 401 APIError.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	body := map[string]string{"email": email, "password": password}

	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, []string{"auth", "token"}, nil, body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh exchanges a refresh token for a new pair carrying the principal's
// current roles.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	body := map[string]string{"refreshToken": refreshToken}

	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, []string{"auth", "refresh"}, nil, body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates a user through the public registration endpoint.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.Email == "" || input.Role == "" {
		return nil, fmt.Errorf("email and role are required")
	}
	var user User
	if err := c.do(ctx, http.MethodPost, []string{"auth", "registros"}, nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Healthz reports the server's name and version from the public info endpoint.
func (c *Client) Healthz(ctx context.Context) (map[string]string, error) {
	info := map[string]string{}
	if err := c.do(ctx, http.MethodGet, []string{"healthz"}, nil, nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// NewCredentials builds storable credentials from a login or refresh response.
func NewCredentials(pair *TokenPair, subject string) *Credentials {
	tokenType := pair.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &Credentials{
		AccessToken:      pair.Token,
		TokenType:        tokenType,
		ExpiresAt:        pair.TokenExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshTokenExpiresAt,
		Subject:          strings.ToLower(strings.TrimSpace(subject)),
	}
}
