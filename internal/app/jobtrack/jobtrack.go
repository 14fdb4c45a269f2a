package jobtrack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jobtrack/internal/cache"
	"github.com/magabrotheeeer/jobtrack/internal/config"
	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/lib/jwt"
	"github.com/magabrotheeeer/jobtrack/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jobtrack/internal/migrations"
	accessservice "github.com/magabrotheeeer/jobtrack/internal/services/access"
	billingservice "github.com/magabrotheeeer/jobtrack/internal/services/billing"
	profileservice "github.com/magabrotheeeer/jobtrack/internal/services/profile"
	signupservice "github.com/magabrotheeeer/jobtrack/internal/services/signup"
	subservice "github.com/magabrotheeeer/jobtrack/internal/services/subscription"
	trackerservice "github.com/magabrotheeeer/jobtrack/internal/services/tracker"
	"github.com/magabrotheeeer/jobtrack/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер трекера и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: хранилище, миграции, кеш, брокер, провайдер
// идентификации, сервисы и маршруты.
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

	conn, err := rabbitmq.Connect(cfg.RabbitConnection.URL, cfg.RabbitConnection.ConnectRetries, cfg.RabbitConnection.ConnectDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetProvisionQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	maker := jwt.NewMaker(cfg.Identity.JWTSecretKey, cfg.Identity.TokenTTL)
	provider := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey)

	profileService := profileservice.NewProfileService(db, logger)
	provisioner := subservice.NewProvisioner(db, db, rabbitmq.NewRetryQueuePublisher(ch), logger)
	resolver := subservice.NewStatusResolver(db, db, logger)
	gate := accessservice.NewGate(resolver, logger)
	signupService := signupservice.NewSignupService(provider, profileService, provisioner, logger)
	trackerService := trackerservice.NewTrackerService(db, cacheRedis, logger)
	billingService := billingservice.NewBillingService(db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &RouteDeps{
		Provider:      provider,
		Maker:         maker,
		Gate:          gate,
		Signup:        signupService,
		Tracker:       trackerService,
		Billing:       billingService,
		WebhookSecret: cfg.Billing.WebhookSecret,
		HealthCheck: func() error {
			return db.DB.PingContext(context.Background())
		},
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
		conn:   conn,
		ch:     ch,
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
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
