package cmdutil

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

// IAMServiceOptions controls how commands construct the IAM service.
type IAMServiceOptions struct {
	// IssueTokens requires a valid jwt configuration. Offline commands never
	// issue tokens and run with an ephemeral signing key instead.
	IssueTokens bool

	Logger      *slog.Logger
	AuthMetrics *telemetry.AuthMetrics
	DBMetrics   *telemetry.DatabaseMetrics
}

// IAMServiceBundle bundles the service with its underlying DB connection and
// the shared collaborators the HTTP server also needs.
type IAMServiceBundle struct {
	Service  iam.Service
	Registry *iam.RoleRegistry
	Tokens   *auth.TokenCodec
	DB       *bun.DB
}

// Close releases the underlying database connection.
func (b *IAMServiceBundle) Close() {
	if b == nil || b.DB == nil {
		return
	}
	bunx.Close(b.DB)
}

// NewIAMServiceBundle centralizes IAM service construction for commands.
func NewIAMServiceBundle(ctx context.Context, cfg *config.Config, opts IAMServiceOptions) (*IAMServiceBundle, error) {
	tokens, err := newTokenCodec(cfg.JWT, opts.IssueTokens)
	if err != nil {
		return nil, err
	}

	db, err := bunx.NewDB(ctx, cfg.DatabaseURL, bunx.Options{
		MaxOpenConns: cfg.MaxDBConnections,
		Logger:       debugLogger(cfg, opts.Logger),
		Metrics:      opts.DBMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	roles := repository.NewBunRoleRepository(db)
	registry := iam.NewRoleRegistry(roles, cfg.Auth.RoleCacheTTL)

	svc, err := iam.NewIAMService(iam.IAMServiceDependencies{
		Users:    repository.NewBunUserRepository(db),
		Roles:    roles,
		Tx:       repository.NewBunTransactor(db),
		Hasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:   tokens,
		Registry: registry,
		Metrics:  opts.AuthMetrics,
		Logger:   opts.Logger,
	}, iam.IAMServiceOptions{
		AdminRole:              cfg.Auth.AdminRole,
		AllowAdminRegistration: cfg.Auth.AllowAdminRegistration,
	})
	if err != nil {
		bunx.Close(db)
		return nil, fmt.Errorf("failed to create IAM service: %w", err)
	}

	return &IAMServiceBundle{
		Service:  svc,
		Registry: registry,
		Tokens:   tokens,
		DB:       db,
	}, nil
}

func newTokenCodec(jwtCfg config.JWTConfig, issueTokens bool) (*auth.TokenCodec, error) {
	secret := []byte(jwtCfg.Secret)
	if issueTokens {
		if err := jwtCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid jwt configuration: %w", err)
		}
	} else if len(secret) < auth.MinSecretBytes {
		secret = make([]byte, auth.MinSecretBytes)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}

	tokens, err := auth.NewTokenCodec(secret,
		auth.WithIssuer(jwtCfg.Issuer),
		auth.WithAccessTTL(jwtCfg.AccessTTL),
		auth.WithRefreshTTL(jwtCfg.RefreshTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	return tokens, nil
}

// debugLogger enables per-query logging only in debug mode.
func debugLogger(cfg *config.Config, logger *slog.Logger) *slog.Logger {
	if !cfg.Debug || logger == nil {
		return nil
	}
	return logger.With("component", "db")
}
