package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockwatch/internal/auth"
	"stockwatch/internal/config"
	"stockwatch/internal/finnhub"
	"stockwatch/internal/server"
	"stockwatch/internal/twelvedata"
	"stockwatch/internal/watchlist"
)

func main() {
	// Local development convenience; in deployment the env is already set.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	redisClient, err := watchlist.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("failed to connect watchlist store", "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	var verifier auth.Verifier = auth.UnverifiedDecoder{}
	if cfg.AuthMode == config.AuthModeHMAC {
		verifier = auth.NewHMACVerifier(cfg.AuthHMACSecret)
	}
	logger.Info("auth configured", "mode", cfg.AuthMode)

	srv := server.New(server.Options{
		Logger:       logger,
		Verifier:     verifier,
		Prices:       twelvedata.New(cfg.TwelveDataAPIKey, cfg.TwelveDataBaseURL, cfg.ProviderTimeout),
		Details:      finnhub.New(cfg.FinnhubAPIKey, cfg.FinnhubBaseURL, cfg.ProviderTimeout),
		Watchlist:    watchlist.NewStore(redisClient),
		AllowOrigins: cfg.CORSAllowOrigins,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
}
