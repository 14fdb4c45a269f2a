// Package services обрабатывает события webhook платёжного провайдера
// и синхронизирует записи подписок с его состоянием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// Типы событий платёжного провайдера, которые обрабатывает сервис.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventSubscriptionUpdated  = "subscription.updated"
	EventSubscriptionCanceled = "subscription.canceled"
)

// Event — событие webhook платёжного провайдера.
type Event struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Object struct {
		SubscriptionID     string `json:"subscription_id"`
		UserID             string `json:"user_id"`
		Status             string `json:"status"`
		PriceID            string `json:"price_id"`
		Amount             int64  `json:"amount"`
		Currency           string `json:"currency"`
		Interval           string `json:"interval"`
		CurrentPeriodStart int64  `json:"current_period_start"` // unix-секунды
		CurrentPeriodEnd   int64  `json:"current_period_end"`   // unix-секунды
		CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	} `json:"object"`
}

// SubscriptionWriter записывает состояние подписок в хранилище.
type SubscriptionWriter interface {
	// UpsertSubscription вставляет или обновляет подписку по её ID.
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
	// UpdateSubscriptionStatus обновляет статус подписки и возвращает
	// количество изменённых строк.
	UpdateSubscriptionStatus(ctx context.Context, id, status string) (int, error)
}

// ProfileStatusUpdater обновляет денормализованный статус подписки в профиле.
type ProfileStatusUpdater interface {
	UpdateProfileSubscriptionStatus(ctx context.Context, userID, status string) error
}

// BillingService применяет события провайдера к локальным подпискам.
type BillingService struct {
	subs     SubscriptionWriter
	profiles ProfileStatusUpdater
	log      *slog.Logger
}

// NewBillingService создает новый экземпляр BillingService.
func NewBillingService(subs SubscriptionWriter, profiles ProfileStatusUpdater, log *slog.Logger) *BillingService {
	return &BillingService{
		subs:     subs,
		profiles: profiles,
		log:      log,
	}
}

// ProcessEvent применяет событие webhook к хранилищу.
//
// Upsert по ID подписки делает обработку идемпотентной: провайдер может
// доставить событие повторно или вне очереди.
func (s *BillingService) ProcessEvent(ctx context.Context, event *Event) error {
	switch event.Type {
	case EventCheckoutCompleted, EventSubscriptionUpdated:
		sub := models.Subscription{
			ID:                 event.Object.SubscriptionID,
			UserID:             event.Object.UserID,
			Status:             event.Object.Status,
			PriceID:            event.Object.PriceID,
			Amount:             event.Object.Amount,
			Currency:           event.Object.Currency,
			Interval:           event.Object.Interval,
			CurrentPeriodStart: time.Unix(event.Object.CurrentPeriodStart, 0).UTC(),
			CurrentPeriodEnd:   time.Unix(event.Object.CurrentPeriodEnd, 0).UTC(),
			CancelAtPeriodEnd:  event.Object.CancelAtPeriodEnd,
		}
		if err := s.subs.UpsertSubscription(ctx, sub); err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}
		s.syncProfileStatus(ctx, event.Object.UserID, event.Object.Status)

	case EventSubscriptionCanceled:
		count, err := s.subs.UpdateSubscriptionStatus(ctx, event.Object.SubscriptionID, models.SubscriptionStatusCanceled)
		if err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		if count == 0 {
			s.log.Warn("canceled subscription not found",
				slog.String("subscription_id", event.Object.SubscriptionID))
		}
		s.syncProfileStatus(ctx, event.Object.UserID, models.SubscriptionStatusCanceled)

	default:
		s.log.Info("ignored billing event", slog.String("type", event.Type))
	}
	return nil
}

func (s *BillingService) syncProfileStatus(ctx context.Context, userID, status string) {
	if userID == "" {
		return
	}
	if err := s.profiles.UpdateProfileSubscriptionStatus(ctx, userID, status); err != nil {
		s.log.Warn("failed to sync profile subscription status", sl.UserID(userID), sl.Err(err))
	}
}
