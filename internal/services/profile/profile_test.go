package services_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/models"
	services "github.com/magabrotheeeer/jobtrack/internal/services/profile"
)

// Мок для ProfileRepository
type ProfileRepoMock struct {
	mock.Mock
}

func (m *ProfileRepoMock) InsertProfileIfAbsent(ctx context.Context, profile models.Profile) (bool, error) {
	args := m.Called(ctx, profile)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileRepoMock) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProfileService_EnsureProfile(t *testing.T) {
	account := &identity.Account{
		ID:       "acc-123",
		Email:    "test@example.com",
		FullName: "Test User",
	}
	storedProfile := &models.Profile{
		ID:              "acc-123",
		UserID:          "acc-123",
		Email:           "test@example.com",
		FullName:        "Test User",
		TokenIdentifier: "test@example.com",
	}

	tests := []struct {
		name       string
		setupMocks func(r *ProfileRepoMock)
		want       *models.Profile
		wantErr    error
	}{
		{
			name: "profile created by this call",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("InsertProfileIfAbsent", mock.Anything, mock.MatchedBy(func(p models.Profile) bool {
					return p.ID == "acc-123" &&
						p.UserID == "acc-123" &&
						p.TokenIdentifier == "test@example.com"
				})).Return(true, nil).Once()
				r.On("GetProfileByUserID", mock.Anything, "acc-123").Return(storedProfile, nil).Once()
			},
			want: storedProfile,
		},
		{
			name: "profile already created elsewhere",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("InsertProfileIfAbsent", mock.Anything, mock.Anything).Return(false, nil).Once()
				r.On("GetProfileByUserID", mock.Anything, "acc-123").Return(storedProfile, nil).Once()
			},
			want: storedProfile,
		},
		{
			name: "insert fails",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("InsertProfileIfAbsent", mock.Anything, mock.Anything).Return(false, errors.New("db error")).Once()
			},
			wantErr: services.ErrProfileCreationFailed,
		},
		{
			name: "profile missing after insert",
			setupMocks: func(r *ProfileRepoMock) {
				r.On("InsertProfileIfAbsent", mock.Anything, mock.Anything).Return(false, nil).Once()
				r.On("GetProfileByUserID", mock.Anything, "acc-123").Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: services.ErrProfileCreationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ProfileRepoMock)
			svc := services.NewProfileService(repo, discardLogger())

			tt.setupMocks(repo)

			got, err := svc.EnsureProfile(context.Background(), account)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
		})
	}
}
