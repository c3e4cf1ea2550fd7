package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/petla/petla-api/internal/config"
	"github.com/petla/petla-api/internal/handlers"
	"github.com/petla/petla-api/internal/logging"
	"github.com/petla/petla-api/internal/middleware"
	"github.com/petla/petla-api/internal/router"
	"github.com/petla/petla-api/internal/services"
	"github.com/petla/petla-api/internal/store"
	"github.com/petla/petla-api/internal/utils"
)

func main() {
	cfg, foundDotEnv, err := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if !foundDotEnv {
		log.Info("No .env file found, relying on environment variables.")
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET is not set, using the built-in development secret")
	}
	log.WithFields(logrus.Fields{
		"port":          cfg.Port,
		"store":         cfg.StoreDriver,
		"database":      cfg.MongoDB,
		"auth_required": cfg.AuthRequired,
	}).Info("starting PetLA API")

	// --- Store ---
	st, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			log.WithError(err).Warn("store close failed")
		}
	}()

	if cfg.MongoEnsureIndexes {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
		if err := store.EnsureDefaultIndexes(ctx, st); err != nil {
			log.WithError(err).Warn("could not ensure indexes")
		}
		cancel()
	}

	// --- Services and handlers ---
	metrics := middleware.NewMetrics()
	tokens := utils.NewTokenIssuer(cfg.JWTSecret)
	h := handlers.NewHandler(handlers.Deps{
		Store:         st,
		Tokens:        tokens,
		Hasher:        utils.NewPasswordHasher(cfg.BcryptCost),
		Notifications: services.NewNotificationService(st, metrics, log),
		Mailer:        services.LogMailer{Log: log},
		Log:           log,
		Timeout:       cfg.MongoTimeout,
	})

	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(h, router.Options{
		Log:          log,
		Metrics:      metrics,
		Tokens:       tokens,
		AuthRequired: cfg.AuthRequired,
		MaxBodyBytes: cfg.MaxContentLength,
		Origins:      cfg.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}

func openStore(cfg config.Config, log logrus.FieldLogger) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using the in-memory store, data is lost on exit")
		return store.NewMemory(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	defer cancel()
	st, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to MongoDB!")
	return st, nil
}
