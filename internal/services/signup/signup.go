// Package services оркестрирует регистрацию: аккаунт у провайдера,
// внутренний профиль и бесплатная подписка.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// ProfileEnsurer гарантирует существование внутреннего профиля для аккаунта.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, account *identity.Account) (*models.Profile, error)
}

// FreeTierProvisioner выдаёт бесплатную подписку новому пользователю.
type FreeTierProvisioner interface {
	ProvisionFreeTier(ctx context.Context, userID string) error
}

// SignupService выполняет регистрацию целиком.
type SignupService struct {
	provider    identity.Provider
	profiles    ProfileEnsurer
	provisioner FreeTierProvisioner
	log         *slog.Logger
}

// NewSignupService создает новый экземпляр SignupService.
func NewSignupService(provider identity.Provider, profiles ProfileEnsurer, provisioner FreeTierProvisioner, log *slog.Logger) *SignupService {
	return &SignupService{
		provider:    provider,
		profiles:    profiles,
		provisioner: provisioner,
		log:         log,
	}
}

// Register создает аккаунт у провайдера, профиль и бесплатную подписку.
//
// Ошибка профиля фатальна: без внутренней записи пользователь не сможет
// работать с трекером. Ошибка выдачи подписки регистрацию не отменяет —
// провизионер сам ставит повторную попытку в очередь.
func (s *SignupService) Register(ctx context.Context, email, password, fullName string) (*identity.Account, error) {
	account, err := s.provider.CreateAccount(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	s.log.Info("created identity account", sl.UserID(account.ID))

	if _, err = s.profiles.EnsureProfile(ctx, account); err != nil {
		return nil, err
	}

	if err = s.provisioner.ProvisionFreeTier(ctx, account.ID); err != nil {
		s.log.Warn("free tier provisioning failed", sl.UserID(account.ID), sl.Err(err))
	}
	return account, nil
}
