package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
)

// Skipper reports whether a request bypasses credential extraction.
type Skipper func(r *http.Request) bool

// PathPrefixSkipper skips requests whose path starts with any of prefixes.
// Empty prefixes are ignored.
func PathPrefixSkipper(prefixes []string) Skipper {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return func(r *http.Request) bool {
		for _, p := range cleaned {
			if strings.HasPrefix(r.URL.Path, p) {
				return true
			}
		}
		return false
	}
}

// Authentication runs the authenticator once per request and stores the
// resulting principal in the request context.
//
// Flow:
//  1. Skipped paths continue anonymously without reading headers.
//  2. (principal, nil): principal is stored with auth.SetUserContext.
//  3. (nil, nil): no credentials, continue anonymously.
//  4. (nil, err): invalid credentials are logged at debug level and the
//     request continues anonymously.
//
// This middleware never rejects a request. Authorize decides between 401
// and 403 for the routes that require a principal.
func Authentication(authenticator iam.Authenticator, skipper Skipper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipper != nil && skipper(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			principal, err := authenticator.Authenticate(ctx, iam.AuthRequest{Headers: r.Header})
			if err != nil {
				// The error kind only; never the token itself.
				slog.DebugContext(ctx, "bearer token rejected",
					"method", r.Method, "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if principal != nil {
				ctx = auth.SetUserContext(ctx, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
