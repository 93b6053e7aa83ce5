package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/langexch/langexch/internal/config"
	"github.com/langexch/langexch/internal/database"
	"github.com/langexch/langexch/internal/language"
	"github.com/langexch/langexch/internal/logging"
	"github.com/langexch/langexch/internal/metrics"
	"github.com/langexch/langexch/internal/nameindex"
	"github.com/langexch/langexch/internal/web"
	"github.com/langexch/langexch/internal/web/handlers"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath string
	port       int
	bind       string
	verbosity  int
)

const startupTimeout = 30 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:          "langexch",
		Short:        "Langexch - language catalog service",
		Long:         `Langexch serves a small catalog of language names over a JSON HTTP API backed by PostgreSQL or SQLite.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides server.port)")
	rootCmd.Flags().StringVarP(&bind, "bind", "b", "", "IP address to bind to (overrides server.ip)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("langexch %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Create the languages table if missing and exit",
		RunE:  runSchema,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies CLI overrides and logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if port != 0 {
		cfg.Server.Port = port
	}
	if bind != "" {
		cfg.Server.IP = bind
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Logging.Level = logging.LevelForVerbosity(verbosity, cfg.Logging.Level)
	logging.Apply(cfg.Logging)

	return cfg, nil
}

// openProvider connects the configured provider and makes sure its table exists
func openProvider(ctx context.Context, factory *database.Factory, cfg config.DatabaseConfig) (database.Provider, error) {
	provider, err := factory.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s provider: %w", cfg.Provider, err)
	}

	if err := provider.EnsureSchema(ctx); err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	return provider, nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	provider, err := openProvider(ctx, database.NewFactory(), cfg.Database)
	if err != nil {
		return err
	}
	defer provider.Close()

	log.Info().Str("provider", provider.Name()).Msg("Schema is ready")
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Warn if binding to all interfaces without an allow list
	if (cfg.Server.IP == "" || cfg.Server.IP == "0.0.0.0" || cfg.Server.IP == "::") && cfg.Server.AllowSubnet == "" {
		log.Warn().Msg("Server is accessible from all interfaces without subnet restrictions. Consider setting server.ip or server.allow_subnet.")
	}

	log.Info().
		Str("version", version).
		Str("provider", cfg.Database.Provider).
		Str("addr", cfg.Server.Addr()).
		Str("allow_subnet", cfg.Server.AllowSubnet).
		Msg("Starting Langexch")

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	provider, err := openProvider(startCtx, database.NewFactory(), cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return err
	}
	defer provider.Close()

	m := metrics.New()
	store := database.Instrument(provider, m)
	manager := language.NewManager(store)

	index := nameindex.New(manager)
	if err := index.Warm(startCtx); err != nil {
		log.Error().Err(err).Msg("Failed to warm language index")
		return err
	}
	if err := index.Start(cfg.Index.ResyncSchedule); err != nil {
		return err
	}
	defer index.Stop()

	// Reload the log level when the config file changes
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(updated *config.Config) {
			logging.SetLevel(logging.LevelForVerbosity(verbosity, updated.Logging.Level))
			log.Info().Str("level", updated.Logging.Level).Msg("Configuration reloaded")
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to watch config file")
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	server := web.NewServer(cfg.Server, handlers.New(manager, index, store), m)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
		return err
	}

	log.Info().Msg("Langexch stopped")
	return nil
}
