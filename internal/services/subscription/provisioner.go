// Package services содержит бизнес-логику подписок: выдачу бесплатного
// тарифа новым пользователям и резолвер статуса для контроля доступа.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// FreeTierPriceID — идентификатор тарифа, выдаваемого при регистрации.
const FreeTierPriceID = "price_free_tier"

// MaxProvisionAttempts ограничивает число попыток выдачи подписки;
// после исчерпания задача не возвращается в очередь.
const MaxProvisionAttempts = 5

// ErrProvisionFailed возвращается, когда подписку не удалось ни создать,
// ни поставить в очередь на повторную попытку.
var ErrProvisionFailed = errors.New("subscription provisioning failed")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// HasActiveSubscription отвечает, есть ли у пользователя активная подписка.
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
	// ListSubscriptions возвращает все подписки пользователя.
	ListSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error)
}

// ProfileStatusUpdater обновляет денормализованный статус подписки в профиле.
type ProfileStatusUpdater interface {
	UpdateProfileSubscriptionStatus(ctx context.Context, userID, status string) error
}

// RetryPublisher ставит задачу провизионирования в очередь повторных попыток.
type RetryPublisher interface {
	Publish(message any) error
}

// ProvisionTask — сообщение очереди повторных попыток.
type ProvisionTask struct {
	UserID    string    `json:"user_id"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

// Provisioner выдаёт бесплатную подписку новым пользователям.
type Provisioner struct {
	subs     SubscriptionRepository
	profiles ProfileStatusUpdater
	retry    RetryPublisher
	log      *slog.Logger
}

// NewProvisioner создает новый экземпляр Provisioner.
func NewProvisioner(subs SubscriptionRepository, profiles ProfileStatusUpdater, retry RetryPublisher, log *slog.Logger) *Provisioner {
	return &Provisioner{
		subs:     subs,
		profiles: profiles,
		retry:    retry,
		log:      log,
	}
}

// ProvisionFreeTier выдаёт пользователю бесплатную подписку на год.
//
// Вызов идемпотентен: если активная подписка уже есть, ничего не меняется.
// При ошибке записи задача уходит в очередь повторных попыток, чтобы не
// блокировать регистрацию; ErrProvisionFailed возвращается только когда
// не сработала и очередь.
func (s *Provisioner) ProvisionFreeTier(ctx context.Context, userID string) error {
	return s.provision(ctx, userID, 1)
}

// ProcessRetry выполняет попытку из очереди повторов, наращивая счётчик.
// После MaxProvisionAttempts задача больше не ставится в очередь.
func (s *Provisioner) ProcessRetry(ctx context.Context, task ProvisionTask) error {
	return s.provision(ctx, task.UserID, task.Attempt+1)
}

func (s *Provisioner) provision(ctx context.Context, userID string, attempt int) error {
	active, err := s.subs.HasActiveSubscription(ctx, userID)
	if err != nil {
		return s.enqueueRetry(userID, attempt, err)
	}
	if active {
		s.log.Info("active subscription already exists", sl.UserID(userID))
		return nil
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		// Детерминированный ID делает повторную выдачу безопасной.
		ID:                 "free_" + userID,
		UserID:             userID,
		Status:             models.SubscriptionStatusActive,
		PriceID:            FreeTierPriceID,
		Amount:             0,
		Currency:           "usd",
		Interval:           "year",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(1, 0, 0),
		CancelAtPeriodEnd:  false,
	}
	if _, err = s.subs.CreateSubscription(ctx, sub); err != nil {
		return s.enqueueRetry(userID, attempt, err)
	}
	s.log.Info("provisioned free tier subscription", sl.UserID(userID))

	if err = s.profiles.UpdateProfileSubscriptionStatus(ctx, userID, models.SubscriptionStatusActive); err != nil {
		s.log.Warn("failed to update profile subscription status", sl.UserID(userID), sl.Err(err))
	}
	return nil
}

func (s *Provisioner) enqueueRetry(userID string, attempt int, cause error) error {
	s.log.Error("failed to provision free tier",
		sl.UserID(userID), slog.Int("attempt", attempt), sl.Err(cause))
	if attempt >= MaxProvisionAttempts {
		s.log.Error("provisioning attempts exhausted, dropping task",
			sl.UserID(userID), slog.Int("attempt", attempt))
		return nil
	}
	task := ProvisionTask{
		UserID:    userID,
		Attempt:   attempt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.retry.Publish(task); err != nil {
		s.log.Error("failed to enqueue provisioning retry", sl.UserID(userID), sl.Err(err))
		return ErrProvisionFailed
	}
	s.log.Info("enqueued provisioning retry", sl.UserID(userID))
	return nil
}
