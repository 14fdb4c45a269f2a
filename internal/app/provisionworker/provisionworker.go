// Package provisionworker реализует фоновый воркер повторных попыток
// выдачи бесплатной подписки.
package provisionworker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jobtrack/internal/config"
	"github.com/magabrotheeeer/jobtrack/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	subservice "github.com/magabrotheeeer/jobtrack/internal/services/subscription"
	"github.com/magabrotheeeer/jobtrack/internal/storage/repository"
)

// App инкапсулирует потребителя очереди провизионирования.
type App struct {
	conn        *amqp.Connection
	ch          *amqp.Channel
	db          *repository.Storage
	provisioner *subservice.Provisioner
	logger      *slog.Logger
}

// New собирает воркер: хранилище, соединение с брокером и сервис
// провизионирования.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	provisioner := subservice.NewProvisioner(db, db, rabbitmq.NewRetryQueuePublisher(ch), logger)

	return &App{
		conn:        conn,
		ch:          ch,
		db:          db,
		provisioner: provisioner,
		logger:      logger,
	}, nil
}

// Run запускает потребление очереди повторных попыток до отмены контекста.
//
// Если попытка снова не удалась, сервис сам ставит новую задачу в очередь
// с увеличенным счётчиком попыток; nack с возвратом в очередь происходит
// только при отказе публикации.
func (a *App) Run(ctx context.Context) error {
	handler := func(body []byte) error {
		var task subservice.ProvisionTask
		if err := json.Unmarshal(body, &task); err != nil {
			a.logger.Error("failed to decode provision task", sl.Err(err))
			return fmt.Errorf("decode provision task: %w", err)
		}

		a.logger.Info("processing provision retry",
			slog.String("user_id", task.UserID),
			slog.Int("attempt", task.Attempt))

		return a.provisioner.ProcessRetry(ctx, task)
	}

	if err := rabbitmq.ConsumerMessage(ctx, a.ch, "provision.retry", handler); err != nil {
		a.logger.Error("failed to start provision.retry consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("provision worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	a.db.DB.Close()

	return nil
}
