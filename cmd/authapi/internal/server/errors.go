package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/middleware"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
)

// Error codes carried in the response envelope.
const (
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeForbidden            = "FORBIDDEN"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeConflict             = "CONFLICT"
	CodeNotFound             = "NOT_FOUND"
	CodeStoreUnavailable     = "STORE_UNAVAILABLE"
	CodeInternal             = "INTERNAL"
)

// authenticationFailed is the only message clients see for a failed login or refresh.
const authenticationFailed = "authentication failed"

// writeError maps a service error onto the envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeProblem(w, r, http.StatusBadRequest, CodeValidationFailed, "request validation failed", verr.Violations)
	case errors.Is(err, iam.ErrInvalidInput):
		writeProblem(w, r, http.StatusBadRequest, CodeValidationFailed, "request validation failed",
			[]string{strings.TrimPrefix(err.Error(), iam.ErrInvalidInput.Error()+": ")})
	case errors.Is(err, iam.ErrStoreUnavailable):
		slog.ErrorContext(r.Context(), "store unavailable", "path", r.URL.Path, "error", err)
		writeProblem(w, r, http.StatusServiceUnavailable, CodeStoreUnavailable, "service temporarily unavailable", nil)
	case errors.Is(err, iam.ErrDuplicatePrincipal):
		writeProblem(w, r, http.StatusConflict, CodeConflict, "email or document already registered", nil)
	case errors.Is(err, iam.ErrDuplicateRole):
		writeProblem(w, r, http.StatusConflict, CodeConflict, "role already exists", nil)
	case errors.Is(err, iam.ErrPrincipalNotFound):
		writeProblem(w, r, http.StatusNotFound, CodeNotFound, "user not found", nil)
	case errors.Is(err, iam.ErrRoleNotFound):
		writeProblem(w, r, http.StatusNotFound, CodeNotFound, "role not found", nil)
	case errors.Is(err, iam.ErrUnauthenticated):
		writeProblem(w, r, http.StatusUnauthorized, CodeUnauthenticated, "authentication required", nil)
	case errors.Is(err, iam.ErrForbidden):
		writeProblem(w, r, http.StatusForbidden, CodeForbidden, forbiddenMessage(err), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeProblem(w, r, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}

// writeAuthError renders unknown principals and bad credentials as the same 401.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, iam.ErrInvalidCredentials) || errors.Is(err, iam.ErrPrincipalNotFound) {
		writeProblem(w, r, http.StatusUnauthorized, CodeAuthenticationFailed, authenticationFailed, nil)
		return
	}
	writeError(w, r, err)
}

// writeDenial renders an authorization denial.
func writeDenial(w http.ResponseWriter, r *http.Request, d iam.Decision) {
	switch status := middleware.DecisionStatus(d); status {
	case http.StatusUnauthorized:
		writeProblem(w, r, status, CodeUnauthenticated, "authentication required", nil)
	case http.StatusServiceUnavailable:
		slog.ErrorContext(r.Context(), "authorization failed closed", "path", r.URL.Path, "error", d.Err)
		writeProblem(w, r, status, CodeStoreUnavailable, "service temporarily unavailable", nil)
	default:
		writeProblem(w, r, status, CodeForbidden, "insufficient role", nil)
	}
}

func forbiddenMessage(err error) string {
	if _, detail, ok := strings.Cut(err.Error(), iam.ErrForbidden.Error()+": "); ok {
		return detail
	}
	return "forbidden"
}
