package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/cmd/cmdutil"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/logging"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/server"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Starts the HTTP server with the authentication, role and user endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverMetrics, err := telemetry.NewServerMetrics()
		if err != nil {
			return fmt.Errorf("create server metrics: %w", err)
		}
		dbMetrics, err := telemetry.NewDatabaseMetrics()
		if err != nil {
			return fmt.Errorf("create database metrics: %w", err)
		}
		authMetrics, err := telemetry.NewAuthMetrics()
		if err != nil {
			return fmt.Errorf("create auth metrics: %w", err)
		}

		bundle, err := cmdutil.NewIAMServiceBundle(cmd.Context(), cfg, cmdutil.IAMServiceOptions{
			IssueTokens: true,
			Logger:      logger,
			AuthMetrics: authMetrics,
			DBMetrics:   dbMetrics,
		})
		if err != nil {
			return err
		}
		defer bundle.Close()

		logger.Info("connected to database")

		validator, err := validation.NewSchemaValidator(cfg.Validation.SchemaCacheSize)
		if err != nil {
			return fmt.Errorf("create request validator: %w", err)
		}

		if cfg.Auth.AllowAdminRegistration {
			logger.Warn("public registration may assign the administrator role",
				"role", cfg.Auth.AdminRole, "setting", "auth.allow_admin_registration")
		}

		corsOpts := server.DefaultCORSOptions(cfg.CORS.AllowedOrigins)
		handler := server.NewH2CHandler(server.RouterOptions{
			IAMService:     bundle.Service,
			Authenticator:  iam.NewBearerAuthenticator(bundle.Tokens),
			Evaluator:      iam.NewEvaluator(bundle.Registry, authMetrics, logger),
			Validator:      validator,
			AdminAuthority: cfg.Auth.AdminAuthority(),
			PublicPaths:    cfg.Auth.PublicPaths,
			Info: server.ServiceInfo{
				Name:        "authapi",
				Description: "JWT authentication and role-based authorization API",
				Version:     Version,
			},
			Logger:      logger,
			Metrics:     serverMetrics,
			CORSOptions: &corsOpts,
			HealthCheck: bundle.DB.PingContext,
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     logging.StdLogger(logger, slog.LevelError),
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", cfg.ServerAddr, "url", cfg.ServerURL,
				"access_ttl", cfg.JWT.AccessTTL, "refresh_ttl", cfg.JWT.RefreshTTL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// SIGHUP drops cached role names so the next dynamic check reads the store.
		cacheRefresh := make(chan os.Signal, 1)
		signal.Notify(cacheRefresh, syscall.SIGHUP)

		for {
			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case sig := <-cacheRefresh:
				bundle.Registry.Invalidate()
				logger.Info("role registry cache invalidated", "signal", sig.String())

			case sig := <-shutdown:
				logger.Info("shutting down gracefully", "signal", sig.String())

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					_ = srv.Close()
					return fmt.Errorf("graceful shutdown failed: %w", err)
				}

				logger.Info("server stopped")
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
