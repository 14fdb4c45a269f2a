package models

// DummyApplication используется для приёма данных отклика из JSON-запроса,
// прежде чем конвертировать их в Application. Дата приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummyApplication struct {
	CompanyName string `json:"company_name" validate:"required"`                                      // Название компании
	JobTitle    string `json:"job_title" validate:"required"`                                         // Должность
	Status      string `json:"status" validate:"omitempty,oneof=applied interviewing offer rejected"` // Статус отклика
	Location    string `json:"location"`                                                              // Локация
	Notes       string `json:"notes"`                                                                 // Заметки
	AppliedAt   string `json:"applied_at" validate:"required"`                                        // Дата отклика в формате 02-01-2006
}

// DummyInterview используется для приёма данных собеседования из JSON-запроса.
type DummyInterview struct {
	ApplicationID string `json:"application_id" validate:"required,uuid"`                   // Отклик
	Kind          string `json:"kind" validate:"required,oneof=phone technical onsite"`     // Тип собеседования
	ScheduledAt   string `json:"scheduled_at" validate:"required"`                          // Дата в формате 02-01-2006 15:04
	Notes         string `json:"notes"`                                                     // Заметки
}

// DummyReferral используется для приёма данных рекомендации из JSON-запроса.
type DummyReferral struct {
	CompanyName  string `json:"company_name" validate:"required"` // Компания
	ReferrerName string `json:"referrer_name"`                    // Кто рекомендует
	Notes        string `json:"notes"`                            // Заметки
}

// DummyMessage используется для приёма данных сообщения из JSON-запроса.
type DummyMessage struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"` // Получатель
	Subject     string `json:"subject"`                               // Тема
	Content     string `json:"content" validate:"required"`           // Текст сообщения
}

// DummyContact используется для приёма данных контакта из JSON-запроса.
type DummyContact struct {
	Name     string `json:"name" validate:"required"`         // Имя контакта
	Company  string `json:"company"`                          // Компания
	Position string `json:"position"`                         // Должность
	Email    string `json:"email" validate:"omitempty,email"` // Электронная почта
	Notes    string `json:"notes"`                            // Заметки
}
