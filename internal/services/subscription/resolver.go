package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// ProfileReader читает профиль по ключу связи с аккаунтом.
type ProfileReader interface {
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// StatusResolver отвечает на единственный вопрос: активна ли подписка
// пользователя прямо сейчас.
type StatusResolver struct {
	subs     SubscriptionRepository
	profiles ProfileReader
	log      *slog.Logger
}

// NewStatusResolver создает новый экземпляр StatusResolver.
func NewStatusResolver(subs SubscriptionRepository, profiles ProfileReader, log *slog.Logger) *StatusResolver {
	return &StatusResolver{
		subs:     subs,
		profiles: profiles,
		log:      log,
	}
}

// IsActive сообщает, есть ли у аккаунта активная подписка.
//
// Ответ вычисляется по текущему состоянию хранилища без кеширования.
// Любая ошибка трактуется как отсутствие подписки: при сбое доступ
// закрывается, а не открывается.
func (s *StatusResolver) IsActive(ctx context.Context, accountID string) bool {
	userID := accountID
	profile, err := s.profiles.GetProfileByUserID(ctx, accountID)
	switch {
	case err == nil:
		userID = profile.UserID
	case errors.Is(err, sql.ErrNoRows):
		// Профиль ещё не создан: ищем подписку по id аккаунта.
		s.log.Warn("profile not found, falling back to account id", sl.UserID(accountID))
	default:
		s.log.Error("failed to read profile", sl.UserID(accountID), sl.Err(err))
		return false
	}

	active, err := s.subs.HasActiveSubscription(ctx, userID)
	if err != nil {
		s.log.Error("failed to check subscription", sl.UserID(userID), sl.Err(err))
		return false
	}
	return active
}
