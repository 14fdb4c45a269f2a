package models

import "time"

// Application представляет отклик пользователя на вакансию.
type Application struct {
	ID          string     // Идентификатор записи
	UserID      string     // Владелец записи
	CompanyName string     // Название компании
	JobTitle    string     // Должность
	Status      string     // applied, interviewing, offer, rejected
	Location    string     // Локация вакансии
	Notes       string     // Заметки пользователя
	AppliedAt   time.Time  // Дата отклика
	CreatedAt   time.Time  // Дата создания записи
	UpdatedAt   *time.Time // Дата последнего обновления
}

// Interview представляет собеседование, привязанное к отклику.
type Interview struct {
	ID            string    // Идентификатор записи
	UserID        string    // Владелец записи
	ApplicationID string    // Отклик, к которому относится собеседование
	Kind          string    // phone, technical, onsite
	Status        string    // scheduled, completed, canceled
	ScheduledAt   time.Time // Дата и время собеседования
	Notes         string    // Заметки
	CreatedAt     time.Time // Дата создания записи
}

// Referral представляет рекомендацию, полученную пользователем.
type Referral struct {
	ID           string    // Идентификатор записи
	UserID       string    // Владелец записи
	CompanyName  string    // Компания, куда рекомендуют
	ReferrerName string    // Кто рекомендует
	Status       string    // pending, submitted, hired, declined
	Notes        string    // Заметки
	CreatedAt    time.Time // Дата создания записи
}

// Contact представляет контакт из профессиональной сети пользователя.
type Contact struct {
	ID        string    // Идентификатор записи
	UserID    string    // Владелец записи
	Name      string    // Имя контакта
	Company   string    // Компания контакта
	Position  string    // Должность
	Email     string    // Электронная почта
	Notes     string    // Заметки
	CreatedAt time.Time // Дата создания записи
}

// Job представляет вакансию из общего каталога. В отличие от откликов,
// каталог не принадлежит конкретному пользователю.
type Job struct {
	ID           string     // Идентификатор вакансии
	CompanyName  string     // Название компании
	JobTitle     string     // Должность
	Description  string     // Описание вакансии
	Location     string     // Локация
	SalaryRange  string     // Вилка зарплаты
	Requirements string     // Требования
	Benefits     string     // Бенефиты
	JobURL       string     // Ссылка на оригинал вакансии
	PostedAt     time.Time  // Дата публикации
	ExpiresAt    *time.Time // Дата снятия вакансии
	IsActive     bool       // Активна ли вакансия
	CreatedAt    time.Time  // Дата создания записи
}

// Message представляет сообщение между пользователями.
type Message struct {
	ID          string     // Идентификатор сообщения
	SenderID    string     // Отправитель
	RecipientID string     // Получатель
	Subject     string     // Тема
	Content     string     // Текст сообщения
	IsRead      bool       // Прочитано ли сообщение
	SentAt      time.Time  // Дата отправки
	ReadAt      *time.Time // Дата прочтения
	CreatedAt   time.Time  // Дата создания записи
}

// DashboardSummary агрегирует данные для главной страницы дашборда.
type DashboardSummary struct {
	TotalApplications    int            `json:"total_applications"`
	ApplicationsByStatus map[string]int `json:"applications_by_status"`
	UpcomingInterviews   int            `json:"upcoming_interviews"`
	RecentApplications   []*Application `json:"recent_applications"`
}
