// Package main содержит точку входа локальной заглушки провайдера
// идентификации. Используется в разработке и интеграционных тестах
// вместо внешнего сервиса.
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

	"github.com/magabrotheeeer/jobtrack/internal/config"
	"github.com/magabrotheeeer/jobtrack/internal/identity/identitystub"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting identity-stub", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stub := identitystub.New(cfg.Identity.JWTSecretKey, cfg.Identity.TokenTTL)
	srv := &http.Server{
		Addr:         cfg.Identity.StubAddress,
		Handler:      stub.Handler(),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("identity-stub listening on", slog.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("identity-stub stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down identity-stub gracefully")
		if err := srv.Shutdown(timeoutCtx); err != nil {
			logger.Error("identity-stub shutdown failed", slog.Any("err", err))
			os.Exit(1)
		}
	}

	logger.Info("identity-stub stopped gracefully")
}
