package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/talent-tracker/internal/cache"
	"github.com/jonathan/talent-tracker/internal/config"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/db/migrate"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/metrics"
	"github.com/jonathan/talent-tracker/internal/server"
	"github.com/jonathan/talent-tracker/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the jobs, candidates, applications, interviews and dashboard endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate || cfg.MigrateOnStart {
		if err := applyMigrations(ctx, database, log); err != nil {
			return err
		}
	}

	m := metrics.New()
	redisCache, err := cache.Connect(ctx, cfg.RedisURL, log, m)
	if err != nil {
		return err
	}
	defer func() { _ = redisCache.Close() }()

	srv, err := server.New(cfg, server.Deps{
		Store:      database,
		Activities: database.Activities(),
		Cache:      redisCache,
		Metrics:    m,
		Logger:     log,
		JWT:        jwtCfg,
		Password:   passwordCfg,
		RateLimit:  ratelimit.LoadConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

func applyMigrations(ctx context.Context, database *db.DB, log logger.Logger) error {
	applied, err := migrate.Runner{}.Up(ctx, database.SQL())
	for _, m := range applied {
		log.Info("migration applied", logger.Int64("version", m.Version), logger.String("name", m.Name))
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
