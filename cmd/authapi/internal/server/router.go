package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/logging"
	authmiddleware "github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/middleware"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

// RouterOptions controls the construction of the HTTP router.
type RouterOptions struct {
	IAMService    iamHandlerService // Compile-time verified IAM service contract
	Authenticator iam.Authenticator
	Evaluator     *iam.Evaluator
	Validator     validation.Validator

	// AdminAuthority guards role and user mutations, e.g. ROLE_ADMINISTRADOR.
	AdminAuthority string
	// PublicPaths are skipped by the authentication filter.
	PublicPaths []string

	Info        ServiceInfo
	Logger      *slog.Logger
	Metrics     *telemetry.ServerMetrics
	CORSOptions *cors.Options

	// HealthCheck backs GET /health, typically a database ping. Nil always reports healthy.
	HealthCheck func(context.Context) error
}

// DefaultCORSOptions returns the development CORS policy for the given origins.
func DefaultCORSOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the API handlers mounted.
func NewRouter(opts RouterOptions) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLogger(logger, slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(authmiddleware.Metrics(opts.Metrics))

	corsCfg := DefaultCORSOptions(nil)
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	r.Use(authmiddleware.Authentication(opts.Authenticator, authmiddleware.PathPrefixSkipper(opts.PublicPaths)))

	r.Get("/health", HandleHealth(opts.HealthCheck))

	r.Get("/api-docs/schemas", HandleListSchemas())
	r.Get("/api-docs/schemas/{name}", HandleSchema())

	anyKnownRole := authmiddleware.Authorize(opts.Evaluator, iam.RequireAnyKnownRole(), writeDenial)
	admin := authmiddleware.Authorize(opts.Evaluator, iam.RequireAuthority(opts.AdminAuthority), writeDenial)
	svc := opts.IAMService
	v := opts.Validator

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", HandleHealthz(opts.Info))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/registros", HandleRegister(svc, v))
			r.Post("/register", HandleRegister(svc, v))
			r.Post("/token", HandleToken(svc, v))
			r.Post("/refresh", HandleRefresh(svc, v))
		})

		r.Group(func(r chi.Router) {
			r.Use(anyKnownRole)
			r.Get("/roles", HandleListRoles(svc))
			r.Get("/usuarios", HandleListUsers(svc))
			r.Get("/usuarios/me", HandleMe())
			r.Get("/usuarios/{tipoDocumento}/{documento}", HandleGetUserByDocument(svc))
		})

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/roles", HandleCreateRole(svc, v))
			r.Put("/roles", HandleUpdateRole(svc, v))
			r.Delete("/roles/{tipoRol}", HandleDeleteRole(svc))
			r.Put("/usuarios", HandleUpdateUser(svc, v))
			r.Delete("/usuarios/{tipoDocumento}/{documento}", HandleDeleteUser(svc))
		})
	})

	return r
}

// NewH2CHandler wraps the router with an h2c server to provide HTTP/2 over
// cleartext.
func NewH2CHandler(opts RouterOptions) http.Handler {
	return h2c.NewHandler(NewRouter(opts), &http2.Server{})
}
