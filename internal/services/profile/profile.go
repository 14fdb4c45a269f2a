// Package services содержит логику согласования профилей пользователей
// с аккаунтами провайдера идентификации.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// ErrProfileCreationFailed возвращается, когда после попытки создания
// профиль так и не читается из хранилища.
var ErrProfileCreationFailed = errors.New("profile creation failed")

// ProfileRepository описывает контракт для работы с профилями в базе данных.
type ProfileRepository interface {
	// InsertProfileIfAbsent вставляет профиль, если его ещё нет,
	// и возвращает true, если вставка произошла.
	InsertProfileIfAbsent(ctx context.Context, profile models.Profile) (bool, error)

	// GetProfileByUserID возвращает профиль по ключу связи с аккаунтом.
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// ProfileService сводит аккаунт провайдера и внутренний профиль к одной записи.
type ProfileService struct {
	repo ProfileRepository
	log  *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo: repo,
		log:  log,
	}
}

// EnsureProfile гарантирует существование профиля для аккаунта.
//
// Вставка условная: если профиль уже создан другим путём, вызов просто
// читает существующую строку. Оба идентификатора профиля равны id аккаунта,
// token_identifier хранит email.
func (s *ProfileService) EnsureProfile(ctx context.Context, account *identity.Account) (*models.Profile, error) {
	profile := models.Profile{
		ID:              account.ID,
		UserID:          account.ID,
		Email:           account.Email,
		Name:            account.FullName,
		FullName:        account.FullName,
		TokenIdentifier: account.Email,
	}

	inserted, err := s.repo.InsertProfileIfAbsent(ctx, profile)
	if err != nil {
		s.log.Error("failed to insert profile", sl.UserID(account.ID), sl.Err(err))
		return nil, ErrProfileCreationFailed
	}
	if inserted {
		s.log.Info("created new profile", sl.UserID(account.ID))
	} else {
		s.log.Info("profile already exists", sl.UserID(account.ID))
	}

	got, err := s.repo.GetProfileByUserID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Error("profile missing after insert", sl.UserID(account.ID))
			return nil, ErrProfileCreationFailed
		}
		return nil, err
	}
	return got, nil
}
