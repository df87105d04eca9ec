package sdk

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// NewTokenSource returns a TokenSource that serves the stored access token
// until it expires, then renews the pair through the refresh endpoint and
// saves it to store. store may be nil.
//
// base must not itself authenticate through the returned source: refresh is
// a public endpoint and calling it through the source would deadlock.
func NewTokenSource(ctx context.Context, base *Client, store CredentialStore, creds *Credentials) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(creds.OAuth2Token(), &refreshingSource{
		ctx:    ctx,
		client: base,
		store:  store,
		creds:  creds,
	})
}

type refreshingSource struct {
	ctx    context.Context
	client *Client
	store  CredentialStore

	mu    sync.Mutex
	creds *Credentials
}

func (s *refreshingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.creds.CanRefresh() {
		return nil, fmt.Errorf("access token expired and no usable refresh token: %w", ErrLoginRequired)
	}

	pair, err := s.client.Refresh(s.ctx, s.creds.RefreshToken)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, fmt.Errorf("refresh rejected: %w", ErrLoginRequired)
		}
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	next := NewCredentials(pair, s.creds.Subject)
	if s.store != nil {
		if err := s.store.SaveCredentials(next); err != nil {
			return nil, fmt.Errorf("save refreshed credentials: %w", err)
		}
	}
	s.creds = next
	return next.OAuth2Token(), nil
}
