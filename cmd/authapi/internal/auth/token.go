package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// MinSecretBytes is the shortest HMAC key NewTokenCodec accepts.
const MinSecretBytes = 32

// Claims is the token payload.
type Claims struct {
	Authorities []string  `json:"authorities"`
	TokenType   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful authentication or refresh.
// Both tokens carry the same subject and authorities.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenCodec issues and validates HS256 tokens. It is immutable after
// construction and safe for concurrent use.
type TokenCodec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// TokenOption configures a TokenCodec.
type TokenOption func(*TokenCodec)

func WithIssuer(issuer string) TokenOption {
	return func(c *TokenCodec) { c.issuer = issuer }
}

func WithAccessTTL(ttl time.Duration) TokenOption {
	return func(c *TokenCodec) { c.accessTTL = ttl }
}

func WithRefreshTTL(ttl time.Duration) TokenOption {
	return func(c *TokenCodec) { c.refreshTTL = ttl }
}

// WithClock replaces time.Now for issuance and validation.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec creates a codec signing with secret.
func NewTokenCodec(secret []byte, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretBytes)
	}

	c := &TokenCodec{
		secret:     append([]byte(nil), secret...),
		issuer:     "api-rest-security-jwt",
		accessTTL:  15 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.accessTTL <= 0 || c.refreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if c.accessTTL >= c.refreshTTL {
		return nil, fmt.Errorf("access TTL %s must be shorter than refresh TTL %s", c.accessTTL, c.refreshTTL)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(c.issuer),
		jwt.WithStrictDecoding(),
	)
	return c, nil
}

func (c *TokenCodec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccessToken signs a short-lived access token for subject.
func (c *TokenCodec) IssueAccessToken(subject string, authorities []string) (string, time.Time, error) {
	return c.issue(subject, authorities, TokenTypeAccess, c.now())
}

// IssueRefreshToken signs a long-lived refresh token for subject.
func (c *TokenCodec) IssueRefreshToken(subject string, authorities []string) (string, time.Time, error) {
	return c.issue(subject, authorities, TokenTypeRefresh, c.now())
}

// IssuePair signs an access and a refresh token from the same instant.
func (c *TokenCodec) IssuePair(subject string, authorities []string) (*TokenPair, error) {
	now := c.now()

	access, accessExp, err := c.issue(subject, authorities, TokenTypeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := c.issue(subject, authorities, TokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (c *TokenCodec) issue(subject string, authorities []string, typ TokenType, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject must not be empty")
	}

	ttl := c.accessTTL
	if typ == TokenTypeRefresh {
		ttl = c.refreshTTL
	}
	// JWT NumericDate has second precision.
	issuedAt := now.Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		Authorities: append([]string{}, authorities...),
		TokenType:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, expiresAt, nil
}

// Parse validates tokenString and returns its claims. Checks run in order:
// structure, signature, time window, issuer, then token type. A tampered
// token is always ErrTokenSignatureInvalid whatever its expiry. Parse does
// no I/O.
func (c *TokenCodec) Parse(tokenString string, expected TokenType) (*Claims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return nil, fmt.Errorf("%w: expected three segments", ErrTokenMalformed)
	}
	if _, _, err := c.parser.ParseUnverified(tokenString, &Claims{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims := &Claims{}
	if _, err := c.parser.ParseWithClaims(tokenString, claims, c.key); err != nil {
		return nil, classify(err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTokenTypeMismatch, claims.TokenType, expected)
	}
	return claims, nil
}

func (c *TokenCodec) key(*jwt.Token) (any, error) {
	return c.secret, nil
}

// classify maps jwt errors onto the token taxonomy. Header and payload
// already decoded, so a malformed error here comes from the signature segment.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrTokenNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %v", ErrTokenInvalidIssuer, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
