package models

import "time"

// Статусы подписки, которые различает резолвер.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// Subscription представляет запись о праве доступа (биллинг).
//
// На профиль может приходиться несколько строк; доступ к дашборду даёт
// наличие хотя бы одной строки со статусом active. Строки создаёт
// провизионер (бесплатный тариф при регистрации) и внешний биллинг
// через webhook.
type Subscription struct {
	ID                 string    // Идентификатор записи
	UserID             string    // Ключ связи с аккаунтом (FK на profiles.user_id)
	Status             string    // active, canceled, past_due и др.
	PriceID            string    // Идентификатор тарифа
	Amount             int64     // Сумма за период в минимальных единицах валюты
	Currency           string    // Валюта
	Interval           string    // Период тарификации: month, year
	CurrentPeriodStart time.Time // Начало оплаченного периода
	CurrentPeriodEnd   time.Time // Конец оплаченного периода
	CancelAtPeriodEnd  bool      // Отменить по окончании периода
	CreatedAt          time.Time // Дата создания
}
