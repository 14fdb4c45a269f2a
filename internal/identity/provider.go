// Package identity содержит клиент внешнего провайдера идентификации.
//
// Провайдер — REST-сервис в духе GoTrue/Supabase Auth: хранит учётные данные,
// подтверждает почту и выпускает JWT сессии. Его wire-протокол — деталь
// реализации клиента; остальной код зависит только от интерфейса Provider.
package identity

import "context"

// Account — внешняя учётная запись, управляемая провайдером.
// Со стороны этой системы она только читается.
type Account struct {
	ID             string // Уникальный идентификатор аккаунта
	Email          string // Электронная почта
	FullName       string // Полное имя из метаданных регистрации
	EmailConfirmed bool   // Подтверждена ли почта
}

// Session — сессия, выпущенная провайдером при успешном входе.
type Session struct {
	AccessToken  string // JWT доступа, подписан общим секретом
	RefreshToken string // Токен обновления
	ExpiresIn    int    // Время жизни токена доступа в секундах
	Account      *Account
}

// Provider описывает контракт провайдера идентификации.
type Provider interface {
	// CreateAccount регистрирует аккаунт. Возвращает ErrInvalidEmail,
	// ErrWeakPassword или *ProviderError.
	CreateAccount(ctx context.Context, email, password, fullName string) (*Account, error)
	// SignIn выполняет вход. Возвращает ErrEmailNotConfirmed,
	// ErrInvalidCredentials или *ProviderError при сбое провайдера.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignOut завершает сессию с указанным токеном доступа.
	SignOut(ctx context.Context, accessToken string) error
	// ResendConfirmation повторно отправляет письмо подтверждения.
	ResendConfirmation(ctx context.Context, email string) error
	// ResetPassword инициирует восстановление пароля.
	ResetPassword(ctx context.Context, email string) error
	// CurrentAccount возвращает аккаунт по токену доступа
	// или (nil, nil), если сессии нет.
	CurrentAccount(ctx context.Context, accessToken string) (*Account, error)
}
