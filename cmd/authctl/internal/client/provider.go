package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

// Provider yields public and authenticated SDK clients backed by the credential store.
type Provider struct {
	serverURL   string
	bearerToken string // ephemeral token that bypasses the credential store

	storeOnce sync.Once
	store     sdk.CredentialStore
	storeErr  error

	sdkOnce   sync.Once
	sdkClient *sdk.Client
	sdkErr    error
}

// NewProvider constructs a new Provider bound to the given server URL.
func NewProvider(serverURL string) *Provider {
	return &Provider{serverURL: serverURL}
}

// NewProviderWithStore is NewProvider with an explicit credential store.
func NewProviderWithStore(serverURL string, store sdk.CredentialStore) *Provider {
	p := &Provider{serverURL: serverURL, store: store}
	p.storeOnce.Do(func() {})
	return p
}

// SetBearerToken injects an ephemeral bearer token (e.g. from AUTHCTL_TOKEN).
// Such a token is never refreshed or stored.
func (p *Provider) SetBearerToken(token string) {
	p.bearerToken = token
}

// ServerURL returns the API base URL.
func (p *Provider) ServerURL() string {
	return p.serverURL
}

// Store returns the credential store, opening the default file store on first use.
func (p *Provider) Store() (sdk.CredentialStore, error) {
	p.storeOnce.Do(func() {
		p.store, p.storeErr = auth.NewFileStore()
	})
	return p.store, p.storeErr
}

// Credentials loads the stored login.
func (p *Provider) Credentials() (*sdk.Credentials, error) {
	store, err := p.Store()
	if err != nil {
		return nil, err
	}
	return store.LoadCredentials()
}

// Public returns a client without credentials, for login, refresh and registration.
func (p *Provider) Public() *sdk.Client {
	return sdk.NewClient(p.serverURL)
}

// SDKClient returns a client that authenticates every request. Stored
// credentials are renewed with the refresh token when the access token expires.
func (p *Provider) SDKClient(ctx context.Context) (*sdk.Client, error) {
	p.sdkOnce.Do(func() {
		// Priority 1: Ephemeral bearer token (for scripts/CI)
		if p.bearerToken != "" {
			source := oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: p.bearerToken,
				TokenType:   "Bearer",
			})
			p.sdkClient = sdk.NewClient(p.serverURL, sdk.WithHTTPClient(oauth2.NewClient(ctx, source)))
			return
		}

		// Priority 2: Stored login
		store, err := p.Store()
		if err != nil {
			p.sdkErr = fmt.Errorf("failed to open credential store: %w", err)
			return
		}
		creds, err := store.LoadCredentials()
		if err != nil {
			p.sdkErr = err
			return
		}
		if creds.IsExpired() && !creds.CanRefresh() {
			p.sdkErr = errors.New("session expired; please run `authctl auth login`")
			return
		}

		source := sdk.NewTokenSource(ctx, p.Public(), store, creds)
		p.sdkClient = sdk.NewClient(p.serverURL, sdk.WithHTTPClient(oauth2.NewClient(ctx, source)))
	})

	if p.sdkErr != nil {
		return nil, p.sdkErr
	}
	return p.sdkClient, nil
}
