package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RikuRonka/LoveLetter/internal/auth"
	"github.com/RikuRonka/LoveLetter/internal/cache"
	"github.com/RikuRonka/LoveLetter/internal/config"
	"github.com/RikuRonka/LoveLetter/internal/database"
	"github.com/RikuRonka/LoveLetter/internal/game"
	"github.com/RikuRonka/LoveLetter/internal/handlers"
	"github.com/RikuRonka/LoveLetter/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration.")
	}
	logger := newLogger(cfg)
	entry := logrus.NewEntry(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			entry.WithError(err).Fatal("Connecting to Postgres.")
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			entry.WithError(err).Fatal("Creating schema.")
		}
		entry.Info("Postgres persistence enabled.")
	}
	if cfg.RedisURL != "" {
		if err := cache.ConnectRedis(ctx, cfg.RedisURL); err != nil {
			entry.WithError(err).Fatal("Connecting to Redis.")
		}
		defer cache.Close()
		entry.Info("Redis historian enabled.")
	}

	if cfg.JWTSecret == config.DevSecret {
		entry.Warn("Signing seat tokens with the development secret; set JWT_SECRET before exposing this server.")
	}
	auth.Init(cfg.JWTSecret)

	rules := game.DefaultHouseRules()
	rules.TurnTimerSec = cfg.TurnTimerSec
	rules.PrinceDrawsBurnedCard = cfg.PrinceDrawsBurned

	sessions := session.NewManager(entry)
	h := handlers.New(sessions, rules, cfg.AllowedOrigins, entry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		entry.WithField("port", cfg.Port).Info("Server listening.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			entry.WithError(err).Fatal("Server failed.")
		}
	}()

	<-ctx.Done()
	entry.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		entry.WithError(err).Error("Graceful shutdown failed.")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info.")
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
