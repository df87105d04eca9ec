package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
)

// ServiceInfo describes the running service for /api/v1/healthz.
type ServiceInfo struct {
	Name        string
	Description string
	Version     string
}

// HandleHealthz handles GET /api/v1/healthz.
func HandleHealthz(info ServiceInfo) http.HandlerFunc {
	body := map[string]string{
		"api":         info.Name,
		"description": info.Description,
		"version":     info.Version,
		"goVersion":   runtime.Version(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, r, http.StatusOK, body)
	}
}

// healthCheckTimeout bounds the readiness check behind GET /health.
const healthCheckTimeout = 2 * time.Second

// HandleHealth handles GET /health. It answers 503 while check fails.
func HandleHealth(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("UNAVAILABLE"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// HandleListSchemas handles GET /api-docs/schemas.
func HandleListSchemas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, r, http.StatusOK, validation.Names())
	}
}

// HandleSchema handles GET /api-docs/schemas/{name} and serves the raw JSON schema.
func HandleSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := validation.Source(chi.URLParam(r, "name"))
		if !ok {
			writeProblem(w, r, http.StatusNotFound, CodeNotFound, "schema not found", nil)
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		_, _ = w.Write(raw)
	}
}
