// Package jwt реализует генерацию и парсинг JWT токенов сессии.
//
// Токены выпускает провайдер идентификации (или его локальная заглушка)
// и подписывает общим секретом HS256. API-сервис проверяет подпись локально,
// не обращаясь к провайдеру на каждый запрос.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен для аккаунта с указанными id и email.
	GenerateToken(accountID, email string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает SessionClaims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
