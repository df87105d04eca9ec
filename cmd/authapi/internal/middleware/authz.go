package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
)

// DenyHandler writes the response for a denied request.
type DenyHandler func(w http.ResponseWriter, r *http.Request, d iam.Decision)

// Authorize evaluates policy for the principal in the request context before
// calling next. Denials go to deny; a nil deny writes a plain-text status.
func Authorize(evaluator *iam.Evaluator, policy iam.Policy, deny DenyHandler) func(http.Handler) http.Handler {
	if deny == nil {
		deny = plainDeny
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := auth.GetUserFromContext(r.Context())

			decision := evaluator.Evaluate(r.Context(), principal, policy)
			if !decision.Allowed {
				if principal != nil {
					slog.DebugContext(r.Context(), "request denied",
						"subject", principal.Subject, "policy", policy.String(), "reason", decision.Reason)
				}
				deny(w, r, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DecisionStatus maps a denial to its HTTP status: 401 for anonymous
// requests, 503 when the role store could not be read, 403 otherwise.
func DecisionStatus(d iam.Decision) int {
	switch {
	case d.Reason == iam.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case errors.Is(d.Err, iam.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusForbidden
	}
}

func plainDeny(w http.ResponseWriter, _ *http.Request, d iam.Decision) {
	status := DecisionStatus(d)
	http.Error(w, http.StatusText(status), status)
}
