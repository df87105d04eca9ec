package config

import (
	"context"
	"fmt"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authctl/internal/client"
	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

type contextKey string

const configKey contextKey = "authctl-config"

// GlobalConfig holds shared configuration for all authctl commands.
// The root command injects it into the cobra command context in PersistentPreRunE.
type GlobalConfig struct {
	ServerURL      string
	NonInteractive bool
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("authctl: config not found in context")
	}
	return cfg
}

// SDKClient is a shortcut for the authenticated client of the injected provider.
func SDKClient(ctx context.Context) (*sdk.Client, error) {
	cfg, ok := FromContext(ctx)
	if !ok || cfg.ClientProvider == nil {
		return nil, fmt.Errorf("client provider not configured")
	}
	return cfg.ClientProvider.SDKClient(ctx)
}
