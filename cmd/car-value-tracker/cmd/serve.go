package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mshelton/car-value-tracker/internal/api"
	"github.com/mshelton/car-value-tracker/internal/auth"
	"github.com/mshelton/car-value-tracker/internal/config"
	"github.com/mshelton/car-value-tracker/internal/jobs"
	"github.com/mshelton/car-value-tracker/internal/store"
	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	"github.com/mshelton/car-value-tracker/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and background jobs",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	var st store.Store
	if cfg.Database.InMemory {
		log.Warn("using in-memory store; nothing survives a restart")
		st = store.NewMemoryStore()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()
		st = pg
	}

	authSvc := auth.NewService(st, cfg.Auth.TokenTTL)

	sched, err := jobs.NewScheduler(st, cfg.Jobs.SessionPurgeSchedule, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	e := api.NewRouter(api.Options{
		Store:              st,
		Auth:               authSvc,
		Data:               fueleconomy.Default(),
		Thresholds:         cfg.Scoring.Thresholds,
		FuelPricePerGallon: cfg.Scoring.FuelPricePerGallon,
		MaxPrice:           cfg.Scoring.MaxPrice,
		RateLimitPerSecond: cfg.Server.RateLimit.PerSecond,
		RateLimitBurst:     cfg.Server.RateLimit.Burst,
		Log:                log,
		Version:            Version,
	})

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
