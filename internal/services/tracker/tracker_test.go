package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jobtrack/internal/models"
	services "github.com/magabrotheeeer/jobtrack/internal/services/tracker"
)

// Мок для TrackerRepository
type TrackerRepoMock struct {
	mock.Mock
}

func (m *TrackerRepoMock) CreateApplication(ctx context.Context, app models.Application) (string, error) {
	args := m.Called(ctx, app)
	return args.String(0), args.Error(1)
}

func (m *TrackerRepoMock) ReadApplication(ctx context.Context, id, userID string) (*models.Application, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *TrackerRepoMock) ListApplications(ctx context.Context, userID string, limit, offset int) ([]*models.Application, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *TrackerRepoMock) UpdateApplication(ctx context.Context, app models.Application, id, userID string) (int, error) {
	args := m.Called(ctx, app, id, userID)
	return args.Int(0), args.Error(1)
}

func (m *TrackerRepoMock) CountApplicationsByStatus(ctx context.Context, userID string) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *TrackerRepoMock) CreateInterview(ctx context.Context, iv models.Interview) (string, error) {
	args := m.Called(ctx, iv)
	return args.String(0), args.Error(1)
}

func (m *TrackerRepoMock) ListInterviews(ctx context.Context, userID string) ([]*models.Interview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Interview), args.Error(1)
}

func (m *TrackerRepoMock) CountUpcomingInterviews(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *TrackerRepoMock) CreateReferral(ctx context.Context, ref models.Referral) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *TrackerRepoMock) ListReferrals(ctx context.Context, userID string) ([]*models.Referral, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Referral), args.Error(1)
}

func (m *TrackerRepoMock) CreateContact(ctx context.Context, c models.Contact) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *TrackerRepoMock) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contact), args.Error(1)
}

func (m *TrackerRepoMock) ListJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *TrackerRepoMock) GetJob(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *TrackerRepoMock) SearchJobs(ctx context.Context, query, location string) ([]*models.Job, error) {
	args := m.Called(ctx, query, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *TrackerRepoMock) CreateMessage(ctx context.Context, msg models.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *TrackerRepoMock) ListMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *TrackerRepoMock) ListUnreadMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *TrackerRepoMock) MarkMessageRead(ctx context.Context, id, recipientID string) (int, error) {
	args := m.Called(ctx, id, recipientID)
	return args.Int(0), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrackerService_CreateApplication(t *testing.T) {
	const userID = "acc-123"

	tests := []struct {
		name       string
		req        models.DummyApplication
		setupMocks func(r *TrackerRepoMock, c *CacheMock)
		wantErr    bool
		errMsg     string
	}{
		{
			name: "successful create",
			req: models.DummyApplication{
				CompanyName: "Acme",
				JobTitle:    "Backend Engineer",
				Status:      "applied",
				AppliedAt:   "15-01-2026",
			},
			setupMocks: func(r *TrackerRepoMock, c *CacheMock) {
				r.On("CreateApplication", mock.Anything, mock.MatchedBy(func(app models.Application) bool {
					return app.UserID == userID &&
						app.CompanyName == "Acme" &&
						app.Status == "applied" &&
						app.AppliedAt.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
				})).Return("app-1", nil).Once()
				c.On("Invalidate", mock.Anything, "dashboard:acc-123").Return(nil).Once()
			},
		},
		{
			name: "empty status defaults to applied",
			req: models.DummyApplication{
				CompanyName: "Acme",
				JobTitle:    "Backend Engineer",
				AppliedAt:   "15-01-2026",
			},
			setupMocks: func(r *TrackerRepoMock, c *CacheMock) {
				r.On("CreateApplication", mock.Anything, mock.MatchedBy(func(app models.Application) bool {
					return app.Status == "applied"
				})).Return("app-1", nil).Once()
				c.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "invalid applied date",
			req: models.DummyApplication{
				CompanyName: "Acme",
				JobTitle:    "Backend Engineer",
				AppliedAt:   "2026-01-15",
			},
			setupMocks: func(_ *TrackerRepoMock, _ *CacheMock) {},
			wantErr:    true,
			errMsg:     "invalid applied date",
		},
		{
			name: "repository error",
			req: models.DummyApplication{
				CompanyName: "Acme",
				JobTitle:    "Backend Engineer",
				AppliedAt:   "15-01-2026",
			},
			setupMocks: func(r *TrackerRepoMock, _ *CacheMock) {
				r.On("CreateApplication", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantErr: true,
			errMsg:  "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TrackerRepoMock)
			cache := new(CacheMock)
			svc := services.NewTrackerService(repo, cache, discardLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.CreateApplication(context.Background(), userID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestTrackerService_CreateInterview(t *testing.T) {
	const userID = "acc-123"
	const appID = "6f1e1a52-0c53-4d6f-8f5b-2f2b6a0f9d11"

	application := &models.Application{ID: appID, UserID: userID}

	tests := []struct {
		name       string
		req        models.DummyInterview
		setupMocks func(r *TrackerRepoMock, c *CacheMock)
		wantErr    bool
		errMsg     string
	}{
		{
			name: "successful create",
			req: models.DummyInterview{
				ApplicationID: appID,
				Kind:          "technical",
				ScheduledAt:   "20-02-2026 14:30",
			},
			setupMocks: func(r *TrackerRepoMock, c *CacheMock) {
				r.On("ReadApplication", mock.Anything, appID, userID).Return(application, nil).Once()
				r.On("CreateInterview", mock.Anything, mock.MatchedBy(func(iv models.Interview) bool {
					return iv.ApplicationID == appID &&
						iv.Kind == "technical" &&
						iv.Status == "scheduled"
				})).Return("iv-1", nil).Once()
				c.On("Invalidate", mock.Anything, "dashboard:acc-123").Return(nil).Once()
			},
		},
		{
			name: "application belongs to another user",
			req: models.DummyInterview{
				ApplicationID: appID,
				Kind:          "technical",
				ScheduledAt:   "20-02-2026 14:30",
			},
			setupMocks: func(r *TrackerRepoMock, _ *CacheMock) {
				r.On("ReadApplication", mock.Anything, appID, userID).Return(nil, errors.New("sql: no rows in result set")).Once()
			},
			wantErr: true,
			errMsg:  "application not found",
		},
		{
			name: "invalid scheduled date",
			req: models.DummyInterview{
				ApplicationID: appID,
				Kind:          "technical",
				ScheduledAt:   "tomorrow",
			},
			setupMocks: func(_ *TrackerRepoMock, _ *CacheMock) {},
			wantErr:    true,
			errMsg:     "invalid scheduled date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TrackerRepoMock)
			cache := new(CacheMock)
			svc := services.NewTrackerService(repo, cache, discardLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.CreateInterview(context.Background(), userID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestTrackerService_DashboardSummary(t *testing.T) {
	const userID = "acc-123"

	recent := []*models.Application{
		{ID: "app-1", UserID: userID, CompanyName: "Acme", Status: "applied"},
	}

	tests := []struct {
		name       string
		setupMocks func(r *TrackerRepoMock, c *CacheMock)
		want       *models.DashboardSummary
	}{
		{
			name: "cache miss computes summary and caches it",
			setupMocks: func(r *TrackerRepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "dashboard:acc-123", mock.Anything).Return(false, nil).Once()
				r.On("CountApplicationsByStatus", mock.Anything, userID).
					Return(map[string]int{"applied": 2, "rejected": 1}, nil).Once()
				r.On("CountUpcomingInterviews", mock.Anything, userID).Return(1, nil).Once()
				r.On("ListApplications", mock.Anything, userID, 5, 0).Return(recent, nil).Once()
				c.On("Set", mock.Anything, "dashboard:acc-123", mock.Anything, 5*time.Minute).Return(nil).Once()
			},
			want: &models.DashboardSummary{
				TotalApplications:    3,
				ApplicationsByStatus: map[string]int{"applied": 2, "rejected": 1},
				UpcomingInterviews:   1,
				RecentApplications:   recent,
			},
		},
		{
			name: "cache error falls through to repository",
			setupMocks: func(r *TrackerRepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "dashboard:acc-123", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("CountApplicationsByStatus", mock.Anything, userID).Return(map[string]int{}, nil).Once()
				r.On("CountUpcomingInterviews", mock.Anything, userID).Return(0, nil).Once()
				r.On("ListApplications", mock.Anything, userID, 5, 0).Return([]*models.Application{}, nil).Once()
				c.On("Set", mock.Anything, "dashboard:acc-123", mock.Anything, 5*time.Minute).Return(nil).Once()
			},
			want: &models.DashboardSummary{
				TotalApplications:    0,
				ApplicationsByStatus: map[string]int{},
				UpcomingInterviews:   0,
				RecentApplications:   []*models.Application{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TrackerRepoMock)
			cache := new(CacheMock)
			svc := services.NewTrackerService(repo, cache, discardLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.DashboardSummary(context.Background(), userID)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestTrackerService_ListJobs(t *testing.T) {
	jobs := []*models.Job{
		{ID: "job-1", CompanyName: "Acme", JobTitle: "Backend Engineer", IsActive: true},
	}

	tests := []struct {
		name       string
		limit      int
		setupMocks func(r *TrackerRepoMock)
	}{
		{
			name:  "explicit limit is passed through",
			limit: 10,
			setupMocks: func(r *TrackerRepoMock) {
				r.On("ListJobs", mock.Anything, 10).Return(jobs, nil).Once()
			},
		},
		{
			name:  "non-positive limit falls back to default",
			limit: 0,
			setupMocks: func(r *TrackerRepoMock) {
				r.On("ListJobs", mock.Anything, 50).Return(jobs, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TrackerRepoMock)
			cache := new(CacheMock)
			svc := services.NewTrackerService(repo, cache, discardLogger())

			tt.setupMocks(repo)

			got, err := svc.ListJobs(context.Background(), tt.limit)

			assert.NoError(t, err)
			assert.Equal(t, jobs, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestTrackerService_SendMessage(t *testing.T) {
	const senderID = "acc-123"
	const recipientID = "6f1e1a52-0c53-4d6f-8f5b-2f2b6a0f9d11"

	tests := []struct {
		name       string
		req        models.DummyMessage
		setupMocks func(r *TrackerRepoMock)
		wantErr    bool
		errMsg     string
	}{
		{
			name: "successful send",
			req: models.DummyMessage{
				RecipientID: recipientID,
				Subject:     "Referral",
				Content:     "Hi, saw your profile",
			},
			setupMocks: func(r *TrackerRepoMock) {
				r.On("CreateMessage", mock.Anything, mock.MatchedBy(func(msg models.Message) bool {
					return msg.SenderID == senderID &&
						msg.RecipientID == recipientID &&
						msg.Content == "Hi, saw your profile" &&
						!msg.IsRead
				})).Return("msg-1", nil).Once()
			},
		},
		{
			name: "message to self is rejected",
			req: models.DummyMessage{
				RecipientID: senderID,
				Content:     "note to self",
			},
			setupMocks: func(_ *TrackerRepoMock) {},
			wantErr:    true,
			errMsg:     "cannot send message to yourself",
		},
		{
			name: "repository error",
			req: models.DummyMessage{
				RecipientID: recipientID,
				Content:     "Hi",
			},
			setupMocks: func(r *TrackerRepoMock) {
				r.On("CreateMessage", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantErr: true,
			errMsg:  "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TrackerRepoMock)
			cache := new(CacheMock)
			svc := services.NewTrackerService(repo, cache, discardLogger())

			tt.setupMocks(repo)

			got, err := svc.SendMessage(context.Background(), senderID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestTrackerService_ListMessages(t *testing.T) {
	const userID = "acc-123"

	all := []*models.Message{
		{ID: "msg-1", SenderID: userID, Content: "sent"},
		{ID: "msg-2", RecipientID: userID, Content: "received"},
	}
	unread := []*models.Message{
		{ID: "msg-2", RecipientID: userID, Content: "received"},
	}

	repo := new(TrackerRepoMock)
	cache := new(CacheMock)
	svc := services.NewTrackerService(repo, cache, discardLogger())

	repo.On("ListMessages", mock.Anything, userID).Return(all, nil).Once()
	repo.On("ListUnreadMessages", mock.Anything, userID).Return(unread, nil).Once()

	got, err := svc.ListMessages(context.Background(), userID, false)
	assert.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = svc.ListMessages(context.Background(), userID, true)
	assert.NoError(t, err)
	assert.Equal(t, unread, got)

	repo.AssertExpectations(t)
}

func TestTrackerService_MarkMessageRead(t *testing.T) {
	const userID = "acc-123"
	const messageID = "6f1e1a52-0c53-4d6f-8f5b-2f2b6a0f9d11"

	repo := new(TrackerRepoMock)
	cache := new(CacheMock)
	svc := services.NewTrackerService(repo, cache, discardLogger())

	// Получатель совпадает: строка обновляется.
	repo.On("MarkMessageRead", mock.Anything, messageID, userID).Return(1, nil).Once()
	count, err := svc.MarkMessageRead(context.Background(), userID, messageID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	// Чужое сообщение: ноль строк, без ошибки.
	repo.On("MarkMessageRead", mock.Anything, messageID, "other-user").Return(0, nil).Once()
	count, err = svc.MarkMessageRead(context.Background(), "other-user", messageID)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	repo.AssertExpectations(t)
}
