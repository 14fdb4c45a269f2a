// Package models содержит доменные структуры трекера вакансий:
// профиль пользователя, подписку и записи о поиске работы.
package models

import "time"

// Profile представляет внутреннюю запись пользователя, связанную с аккаунтом
// провайдера идентификации.
//
// ID и UserID оба равны идентификатору аккаунта: ID — первичный ключ,
// унаследованный от старой схемы, UserID — каноничный ключ связи, по которому
// ищутся подписки и записи трекера. TokenIdentifier — опорное уникальное
// значение, требуемое провайдером, хранит email.
type Profile struct {
	ID              string     // Первичный ключ (равен id аккаунта)
	UserID          string     // Каноничный ключ связи с аккаунтом
	Email           string     // Электронная почта
	Name            string     // Отображаемое имя
	FullName        string     // Полное имя из формы регистрации
	TokenIdentifier string     // Уникальный якорь провайдера
	Subscription    string     // Денормализованный статус подписки (легаси)
	CreatedAt       time.Time  // Дата создания
	UpdatedAt       *time.Time // Дата последнего обновления
}
