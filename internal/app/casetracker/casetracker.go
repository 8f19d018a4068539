// Package casetracker собирает основное HTTP-приложение: хранилище,
// кеш, сессии, сервисы и маршруты.
package casetracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/caseconnect/casetracker/internal/cache"
	"github.com/caseconnect/casetracker/internal/config"
	"github.com/caseconnect/casetracker/internal/lib/jwt"
	"github.com/caseconnect/casetracker/internal/migrations"
	"github.com/caseconnect/casetracker/internal/paymentprovider"
	authservice "github.com/caseconnect/casetracker/internal/services/auth"
	casesservice "github.com/caseconnect/casetracker/internal/services/cases"
	paymentservice "github.com/caseconnect/casetracker/internal/services/payment"
	subservice "github.com/caseconnect/casetracker/internal/services/subscription"
	"github.com/caseconnect/casetracker/internal/services/summarizer"
	"github.com/caseconnect/casetracker/internal/session"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// App представляет основное приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает базу, прогоняет миграции,
// инициализирует кеш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	sessionStore := session.NewRedisStore(cacheRedis)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, db, sessionStore, jwtMaker, cfg.SessionTTL, logger)
	subscriptionService := subservice.NewService(db, cacheRedis, logger)
	casesService := casesservice.NewService(db, logger)

	phonePeClient := paymentprovider.NewPhonePeClient(
		cfg.PhonePeMerchantID, cfg.PhonePeSaltKey, cfg.PhonePeBaseURL, cfg.PhonePeCallbackURL)
	razorpayClient := paymentprovider.NewRazorpayClient(
		cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)
	paymentService := paymentservice.NewService(db, phonePeClient, razorpayClient, logger)

	summarizerClient := summarizer.NewClient(
		cfg.SummarizerAPIURL, cfg.SummarizerAPIKey, cfg.SummarizerModel)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &RouteDeps{
		Auth:         authService,
		Subscription: subscriptionService,
		Cases:        casesService,
		Payment:      paymentService,
		Summarizer:   summarizerClient,
		Razorpay:     razorpayClient,
		Users:        db,
		JWTMaker:     jwtMaker,
		Sessions:     sessionStore,
		UploadDir:    cfg.UploadDir,
	})

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

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
