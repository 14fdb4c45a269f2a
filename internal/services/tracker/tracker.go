// Package services содержит бизнес-логику трекера вакансий: отклики,
// собеседования, рекомендации, контакты, каталог вакансий, сообщения
// и сводку для дашборда.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/jobtrack/internal/models"
)

const (
	dateLayout     = "02-01-2006"
	dateTimeLayout = "02-01-2006 15:04"

	dashboardCacheTTL = 5 * time.Minute
	recentLimit       = 5

	defaultJobsLimit = 50
)

// TrackerRepository определяет методы для работы с записями трекера в хранилище.
type TrackerRepository interface {
	CreateApplication(ctx context.Context, app models.Application) (string, error)
	ReadApplication(ctx context.Context, id, userID string) (*models.Application, error)
	ListApplications(ctx context.Context, userID string, limit, offset int) ([]*models.Application, error)
	UpdateApplication(ctx context.Context, app models.Application, id, userID string) (int, error)
	CountApplicationsByStatus(ctx context.Context, userID string) (map[string]int, error)

	CreateInterview(ctx context.Context, iv models.Interview) (string, error)
	ListInterviews(ctx context.Context, userID string) ([]*models.Interview, error)
	CountUpcomingInterviews(ctx context.Context, userID string) (int, error)

	CreateReferral(ctx context.Context, ref models.Referral) (string, error)
	ListReferrals(ctx context.Context, userID string) ([]*models.Referral, error)

	CreateContact(ctx context.Context, c models.Contact) (string, error)
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)

	ListJobs(ctx context.Context, limit int) ([]*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	SearchJobs(ctx context.Context, query, location string) ([]*models.Job, error)

	CreateMessage(ctx context.Context, msg models.Message) (string, error)
	ListMessages(ctx context.Context, userID string) ([]*models.Message, error)
	ListUnreadMessages(ctx context.Context, userID string) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, id, recipientID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// TrackerService реализует бизнес-логику трекера, включая кеширование сводки.
type TrackerService struct {
	repo  TrackerRepository
	cache Cache
	log   *slog.Logger
}

// NewTrackerService создает новый экземпляр TrackerService.
func NewTrackerService(repo TrackerRepository, cache Cache, log *slog.Logger) *TrackerService {
	return &TrackerService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func dashboardKey(userID string) string {
	return fmt.Sprintf("dashboard:%s", userID)
}

// CreateApplication создает новый отклик пользователя и возвращает его ID.
func (s *TrackerService) CreateApplication(ctx context.Context, userID string, req models.DummyApplication) (string, error) {
	appliedAt, err := time.Parse(dateLayout, req.AppliedAt)
	if err != nil {
		return "", fmt.Errorf("invalid applied date: %w", err)
	}

	status := req.Status
	if status == "" {
		status = "applied"
	}
	app := models.Application{
		ID:          uuid.New().String(),
		UserID:      userID,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		Status:      status,
		Location:    req.Location,
		Notes:       req.Notes,
		AppliedAt:   appliedAt,
	}

	id, err := s.repo.CreateApplication(ctx, app)
	if err != nil {
		return "", err
	}
	s.log.Info("created new application", slog.String("id", id))

	s.invalidateDashboard(ctx, userID)
	return id, nil
}

// ReadApplication возвращает отклик пользователя по ID.
func (s *TrackerService) ReadApplication(ctx context.Context, id, userID string) (*models.Application, error) {
	return s.repo.ReadApplication(ctx, id, userID)
}

// ListApplications возвращает отклики пользователя с пагинацией.
func (s *TrackerService) ListApplications(ctx context.Context, userID string, limit, offset int) ([]*models.Application, error) {
	return s.repo.ListApplications(ctx, userID, limit, offset)
}

// UpdateApplication обновляет отклик пользователя и возвращает количество
// изменённых строк.
func (s *TrackerService) UpdateApplication(ctx context.Context, userID, id string, req models.DummyApplication) (int, error) {
	appliedAt, err := time.Parse(dateLayout, req.AppliedAt)
	if err != nil {
		return 0, fmt.Errorf("invalid applied date: %w", err)
	}

	app := models.Application{
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		Status:      req.Status,
		Location:    req.Location,
		Notes:       req.Notes,
		AppliedAt:   appliedAt,
	}
	count, err := s.repo.UpdateApplication(ctx, app, id, userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated application", slog.String("id", id))

	s.invalidateDashboard(ctx, userID)
	return count, nil
}

// CreateInterview создает собеседование, привязанное к отклику пользователя.
func (s *TrackerService) CreateInterview(ctx context.Context, userID string, req models.DummyInterview) (string, error) {
	scheduledAt, err := time.Parse(dateTimeLayout, req.ScheduledAt)
	if err != nil {
		return "", fmt.Errorf("invalid scheduled date: %w", err)
	}

	// Отклик должен существовать и принадлежать пользователю.
	if _, err = s.repo.ReadApplication(ctx, req.ApplicationID, userID); err != nil {
		return "", fmt.Errorf("application not found: %w", err)
	}

	iv := models.Interview{
		ID:            uuid.New().String(),
		UserID:        userID,
		ApplicationID: req.ApplicationID,
		Kind:          req.Kind,
		Status:        "scheduled",
		ScheduledAt:   scheduledAt,
		Notes:         req.Notes,
	}
	id, err := s.repo.CreateInterview(ctx, iv)
	if err != nil {
		return "", err
	}
	s.log.Info("created new interview", slog.String("id", id))

	s.invalidateDashboard(ctx, userID)
	return id, nil
}

// ListInterviews возвращает собеседования пользователя.
func (s *TrackerService) ListInterviews(ctx context.Context, userID string) ([]*models.Interview, error) {
	return s.repo.ListInterviews(ctx, userID)
}

// CreateReferral создает рекомендацию пользователя и возвращает её ID.
func (s *TrackerService) CreateReferral(ctx context.Context, userID string, req models.DummyReferral) (string, error) {
	ref := models.Referral{
		ID:           uuid.New().String(),
		UserID:       userID,
		CompanyName:  req.CompanyName,
		ReferrerName: req.ReferrerName,
		Status:       "pending",
		Notes:        req.Notes,
	}
	id, err := s.repo.CreateReferral(ctx, ref)
	if err != nil {
		return "", err
	}
	s.log.Info("created new referral", slog.String("id", id))
	return id, nil
}

// ListReferrals возвращает рекомендации пользователя.
func (s *TrackerService) ListReferrals(ctx context.Context, userID string) ([]*models.Referral, error) {
	return s.repo.ListReferrals(ctx, userID)
}

// CreateContact создает контакт пользователя и возвращает его ID.
func (s *TrackerService) CreateContact(ctx context.Context, userID string, req models.DummyContact) (string, error) {
	contact := models.Contact{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     req.Name,
		Company:  req.Company,
		Position: req.Position,
		Email:    req.Email,
		Notes:    req.Notes,
	}
	id, err := s.repo.CreateContact(ctx, contact)
	if err != nil {
		return "", err
	}
	s.log.Info("created new contact", slog.String("id", id))
	return id, nil
}

// ListContacts возвращает контакты пользователя.
func (s *TrackerService) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	return s.repo.ListContacts(ctx, userID)
}

// ListJobs возвращает активные вакансии каталога. Неположительный limit
// заменяется значением по умолчанию.
func (s *TrackerService) ListJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = defaultJobsLimit
	}
	return s.repo.ListJobs(ctx, limit)
}

// GetJob возвращает вакансию каталога по ID.
func (s *TrackerService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.repo.GetJob(ctx, id)
}

// SearchJobs ищет активные вакансии по тексту и, опционально, локации.
func (s *TrackerService) SearchJobs(ctx context.Context, query, location string) ([]*models.Job, error) {
	return s.repo.SearchJobs(ctx, query, location)
}

// SendMessage отправляет сообщение другому пользователю и возвращает его ID.
func (s *TrackerService) SendMessage(ctx context.Context, senderID string, req models.DummyMessage) (string, error) {
	if req.RecipientID == senderID {
		return "", fmt.Errorf("cannot send message to yourself")
	}
	msg := models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Content:     req.Content,
		SentAt:      time.Now().UTC(),
	}
	id, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return "", err
	}
	s.log.Info("sent new message", slog.String("id", id))
	return id, nil
}

// ListMessages возвращает сообщения пользователя; при unreadOnly — только
// непрочитанные входящие.
func (s *TrackerService) ListMessages(ctx context.Context, userID string, unreadOnly bool) ([]*models.Message, error) {
	if unreadOnly {
		return s.repo.ListUnreadMessages(ctx, userID)
	}
	return s.repo.ListMessages(ctx, userID)
}

// MarkMessageRead помечает входящее сообщение пользователя прочитанным
// и возвращает количество изменённых строк. Чужое сообщение пометить нельзя.
func (s *TrackerService) MarkMessageRead(ctx context.Context, userID, messageID string) (int, error) {
	count, err := s.repo.MarkMessageRead(ctx, messageID, userID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info("marked message as read", slog.String("id", messageID))
	}
	return count, nil
}

// DashboardSummary возвращает сводку для дашборда, используя кеш.
func (s *TrackerService) DashboardSummary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	cacheKey := dashboardKey(userID)

	var cached *models.DashboardSummary
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read dashboard cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && cached != nil {
		return cached, nil
	}

	byStatus, err := s.repo.CountApplicationsByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range byStatus {
		total += count
	}

	upcoming, err := s.repo.CountUpcomingInterviews(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.ListApplications(ctx, userID, recentLimit, 0)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		TotalApplications:    total,
		ApplicationsByStatus: byStatus,
		UpcomingInterviews:   upcoming,
		RecentApplications:   recent,
	}
	if err := s.cache.Set(ctx, cacheKey, summary, dashboardCacheTTL); err != nil {
		s.log.Warn("failed to cache dashboard summary", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return summary, nil
}

func (s *TrackerService) invalidateDashboard(ctx context.Context, userID string) {
	cacheKey := dashboardKey(userID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate dashboard cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
