// Package cardlink собирает и запускает HTTP-приложение сервиса.
package cardlink

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/cardlink/internal/cache"
	"github.com/magabrotheeeer/cardlink/internal/config"
	"github.com/magabrotheeeer/cardlink/internal/lib/jwt"
	"github.com/magabrotheeeer/cardlink/internal/migrations"
	"github.com/magabrotheeeer/cardlink/internal/paymentprovider"
	accessservice "github.com/magabrotheeeer/cardlink/internal/services/access"
	authservice "github.com/magabrotheeeer/cardlink/internal/services/auth"
	cardservice "github.com/magabrotheeeer/cardlink/internal/services/card"
	paymentservice "github.com/magabrotheeeer/cardlink/internal/services/payment"
	presentationservice "github.com/magabrotheeeer/cardlink/internal/services/presentation"
	"github.com/magabrotheeeer/cardlink/internal/storage/repository"
)

// App представляет HTTP-приложение сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: хранилище, миграции, кеш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.AccessToken, cfg.ProviderAPIURL)

	accessSvc := accessservice.NewAccessService(db, cacheRedis, logger)
	authSvc := authservice.NewAuthService(db, accessSvc, maker)
	cardSvc := cardservice.NewCardService(db, accessSvc, logger)
	presentationSvc := presentationservice.NewPresentationService(db, accessSvc, logger)
	paymentSvc := paymentservice.NewPaymentService(providerClient, accessSvc, db, cfg.BackURL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, authSvc, accessSvc, cardSvc, presentationSvc, paymentSvc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и корректно завершает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
