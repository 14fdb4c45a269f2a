package identity

import (
	"errors"
	"fmt"
)

// Ошибки валидации входных данных и распознанные ответы провайдера.
var (
	// ErrInvalidEmail — адрес не проходит проверку формы email.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword — пароль короче минимальной длины.
	ErrWeakPassword = errors.New("password must be at least 6 characters long")
	// ErrEmailNotConfirmed — вход с неподтверждённой почтой; вызывающая
	// сторона предлагает повторную отправку письма.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ProviderError — любая другая ошибка, возвращённая провайдером
// идентификации (дубликат email, превышение лимита и т.п.).
type ProviderError struct {
	StatusCode int    // HTTP-статус ответа провайдера
	Message    string // Сообщение провайдера
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error (status %d): %s", e.StatusCode, e.Message)
}
