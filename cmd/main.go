// Package main provides the CLI entrypoint for mediatrace.
// It wires subcommands (watch, report, export, migrate), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mediatrace/internal/config"
	"mediatrace/pkg/domain"
	"mediatrace/pkg/logger"
	"mediatrace/pkg/storage"
	"mediatrace/pkg/storage/jsonfile"
	"mediatrace/pkg/storage/postgres"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getStorage opens the configured domain storage backend.
func getStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func()) {
	if cfg.Storage.Backend == config.BackendPostgres {
		return getPostgres(ctx, cfg)
	}

	files := jsonfile.New(jsonfile.Options{
		VideoPath: cfg.Storage.VideoPath,
		AudioPath: cfg.Storage.AudioPath,
	})

	return files, func() { _ = files.Close() }
}

// loadDomains reads one stored list. Failures are logged and yield an empty list.
func loadDomains(ctx context.Context, strg storage.Storage, kind domain.Kind) []string {
	store := strg.Domains(kind)
	if store == nil {
		return nil
	}

	domains, err := store.Load(ctx)
	if err != nil {
		logger.Error(ctx, "could not load stored domains, starting empty",
			zap.String("kind", string(kind)), zap.Error(err))

		return nil
	}

	return domains
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:          "mediatrace",
		Short:        "Learns which hosts serve video to a browser session",
		SilenceUsage: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		watchCommand(cfg),
		reportCommand(cfg),
		exportCommand(cfg),
		migrateCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
