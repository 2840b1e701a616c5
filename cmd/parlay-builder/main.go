package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/config"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/logger"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/session"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Logger.WithError(err).Fatal("failed to load configuration")
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	}); err != nil {
		logger.Logger.WithError(err).Fatal("failed to initialize logger")
	}

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Logger.WithError(err).Error("parlay builder exited with error")
		os.Exit(1)
	}

	logger.Logger.Info("parlay builder stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	g, ctx := errgroup.WithContext(ctx)

	hub := session.NewHub()
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	calc := calculator.NewCalculator(cfg.Defaults.VigPolicy)
	handler := handlers.NewHandler(ctx, cfg, calc, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"vig_pct":     cfg.Defaults.AssumedVigPct,
			"vig_policy":  cfg.Defaults.VigPolicy,
			"stake":       cfg.Defaults.Stake,
			"boost_pct":   cfg.Defaults.BoostPct,
			"share_base":  cfg.Share.BaseURL,
			"cors_origin": cfg.Server.AllowedOrigins,
		}).Info("parlay builder started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown once the signal arrives or the server fails
	g.Go(func() error {
		<-ctx.Done()
		logger.Logger.Info("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
