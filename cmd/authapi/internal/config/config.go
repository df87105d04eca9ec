package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
)

// EnvPrefix is prepended to every environment variable read by Load.
// Nested keys use underscores: jwt.secret becomes AUTHAPI_JWT_SECRET.
const EnvPrefix = "AUTHAPI"

// Config holds the application configuration
type Config struct {
	// Database connection string (DSN). postgres:// selects PostgreSQL, anything else SQLite.
	DatabaseURL string `mapstructure:"database_url"`

	// Server bind address (host:port)
	ServerAddr string `mapstructure:"server_addr"`

	// Public base URL, used by the client CLI and in log output
	ServerURL string `mapstructure:"server_url"`

	// Maximum database connection pool size
	MaxDBConnections int `mapstructure:"max_db_connections"`

	// Enable debug logging
	Debug bool `mapstructure:"debug"`

	Log        LogConfig        `mapstructure:"log"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Auth       AuthConfig       `mapstructure:"auth"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// JWTConfig holds the signing material and token lifetimes.
// It is read once at startup; the token codec built from it is immutable.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// MinSecretLength is the shortest accepted HMAC secret, in bytes.
const MinSecretLength = 32

// Validate checks the JWT settings needed to issue and verify tokens.
// It is separate from Load so that commands which never touch tokens
// (db migrate, db status) run without a secret configured.
func (c JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("%s_JWT_SECRET is required", EnvPrefix)
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("%s_JWT_SECRET must be at least %d bytes", EnvPrefix, MinSecretLength)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("jwt access_ttl and refresh_ttl must be positive")
	}
	if c.AccessTTL >= c.RefreshTTL {
		return fmt.Errorf("jwt access_ttl (%s) must be shorter than refresh_ttl (%s)", c.AccessTTL, c.RefreshTTL)
	}
	return nil
}

// AuthConfig controls authentication and authorization behaviour.
type AuthConfig struct {
	// AdminRole is the role name (without ROLE_ prefix) required by administrator-only endpoints.
	AdminRole string `mapstructure:"admin_role"`

	// BcryptCost is the work factor for new password hashes.
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// RoleCacheTTL caches the role registry for dynamic checks. Zero reads the store on every check.
	RoleCacheTTL time.Duration `mapstructure:"role_cache_ttl"`

	// AllowAdminRegistration lets the public registration endpoint assign AdminRole.
	AllowAdminRegistration bool `mapstructure:"allow_admin_registration"`

	// PublicPaths are path prefixes the request authentication filter skips.
	PublicPaths []string `mapstructure:"public_paths"`
}

// AdminAuthority returns the granted-authority string for AdminRole.
func (c AuthConfig) AdminAuthority() string {
	return auth.RoleAuthority(c.AdminRole)
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ValidationConfig sizes the compiled JSON schema cache.
type ValidationConfig struct {
	SchemaCacheSize int `mapstructure:"schema_cache_size"`
}

// SetDefaults registers every key with viper. Registering defaults also makes
// AutomaticEnv visible to Unmarshal for keys that are only set in the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "file:authapi.db?cache=shared")
	v.SetDefault("server_addr", "localhost:8080")
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("max_db_connections", 25)
	v.SetDefault("debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "api-rest-security-jwt")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")

	v.SetDefault("auth.admin_role", "ADMINISTRADOR")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.role_cache_ttl", "0s")
	v.SetDefault("auth.allow_admin_registration", true)
	v.SetDefault("auth.public_paths", []string{"/health", "/api/v1/healthz", "/api/v1/auth/", "/api-docs/"})

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("validation.schema_cache_size", 32)
}

// Load reads configuration from the global viper instance: defaults, then an
// optional config file (already read by the caller), then AUTHAPI_* environment
// variables, then bound command-line flags.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load against an explicit viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if cfg.Debug {
		cfg.Log.Level = "debug"
	}
	cfg.Auth.AdminRole = strings.ToUpper(strings.TrimSpace(cfg.Auth.AdminRole))

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s_DATABASE_URL is required", EnvPrefix)
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("%s_SERVER_URL is required", EnvPrefix)
	}

	if cfg.Auth.AdminRole == "" {
		return nil, fmt.Errorf("auth.admin_role must not be empty")
	}

	if cfg.MaxDBConnections <= 0 {
		cfg.MaxDBConnections = 25
	}

	return cfg, nil
}
