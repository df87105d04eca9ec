package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/cmd/roles"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/cmd/users"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/config"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/logging"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	cfg        *config.Config
	logger     *slog.Logger
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "authapi",
	Short: "JWT authentication and role-based authorization API",
	Long: `authapi issues and validates bearer tokens for registered users and
authorizes requests against roles stored in the database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger = logging.New(cfg.Log, Version)
		logging.Install(logger)
		return nil
	},
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML or TOML config file")
	flags.String("db-url", "", "Database connection URL (env: AUTHAPI_DATABASE_URL)")
	flags.String("server-addr", "", "Server bind address (env: AUTHAPI_SERVER_ADDR)")
	flags.String("server-url", "", "Public server URL (env: AUTHAPI_SERVER_URL)")
	flags.Bool("debug", false, "Enable debug logging (env: AUTHAPI_DEBUG)")

	_ = viper.BindPFlag("database_url", flags.Lookup("db-url"))
	_ = viper.BindPFlag("server_addr", flags.Lookup("server-addr"))
	_ = viper.BindPFlag("server_url", flags.Lookup("server-url"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))

	// Add subcommands
	rootCmd.AddCommand(users.UsersCmd)
	rootCmd.AddCommand(roles.RolesCmd)
}

// Execute runs the root command
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
