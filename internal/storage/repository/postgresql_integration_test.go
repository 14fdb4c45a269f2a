package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jobtrack/internal/models"
)

func TestStorage_InsertProfileIfAbsent(t *testing.T) {
	tests := []struct {
		name         string
		wantInserted bool
		setup        func(t *testing.T, factory *TestDataFactory, profile models.Profile)
	}{
		{
			name:         "insert into empty table",
			wantInserted: true,
			setup:        func(_ *testing.T, _ *TestDataFactory, _ models.Profile) {},
		},
		{
			name:         "second insert for same user is a no-op",
			wantInserted: false,
			setup: func(t *testing.T, factory *TestDataFactory, profile models.Profile) {
				factory.CreateProfile(t, profile.UserID, profile.Email, profile.FullName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			profile := GetTestProfile()
			factory := NewTestDataFactory(storage)
			tt.setup(t, factory, profile)

			inserted, err := storage.InsertProfileIfAbsent(context.Background(), profile)

			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)

			// В обоих случаях строка ровно одна
			verification := NewTestVerification(storage)
			verification.VerifyProfileExists(t, profile.UserID)
		})
	}
}

func TestStorage_GetProfileByUserID(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
		setup   func(t *testing.T, factory *TestDataFactory) string
	}{
		{
			name:    "successful get profile",
			wantErr: false,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				userID := uuid.New().String()
				factory.CreateProfile(t, userID, "test@example.com", "Test User")
				return userID
			},
		},
		{
			name:    "get non-existing profile",
			wantErr: true,
			setup:   func(_ *testing.T, _ *TestDataFactory) string { return uuid.New().String() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userID := tt.setup(t, factory)

			got, err := storage.GetProfileByUserID(context.Background(), userID)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, sql.ErrNoRows)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, userID, got.UserID)
				assert.Equal(t, "test@example.com", got.Email)
				assert.Equal(t, "", got.Subscription)
				assert.Nil(t, got.UpdatedAt)
			}
		})
	}
}

func TestStorage_UpdateProfileSubscriptionStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := uuid.New().String()
	factory.CreateProfile(t, userID, "test@example.com", "Test User")

	err := storage.UpdateProfileSubscriptionStatus(context.Background(), userID, models.SubscriptionStatusActive)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyProfileSubscriptionStatus(t, userID, models.SubscriptionStatusActive)

	got, err := storage.GetProfileByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, got.UpdatedAt)
}

func TestStorage_CreateSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := uuid.New().String()
	factory.CreateProfile(t, userID, "test@example.com", "Test User")

	now := time.Now().UTC().Truncate(time.Second)
	sub := models.Subscription{
		ID:                 "sub_" + uuid.New().String(),
		UserID:             userID,
		Status:             models.SubscriptionStatusActive,
		PriceID:            "price_free_tier",
		Amount:             0,
		Currency:           "usd",
		Interval:           "year",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(1, 0, 0),
		CancelAtPeriodEnd:  false,
	}

	gotID, err := storage.CreateSubscription(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, gotID)

	verification := NewTestVerification(storage)
	verification.VerifySubscriptionExists(t, sub.ID)
}

func TestStorage_HasActiveSubscription(t *testing.T) {
	tests := []struct {
		name  string
		want  bool
		setup func(t *testing.T, factory *TestDataFactory) string
	}{
		{
			name: "user with active subscription",
			want: true,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				userID := uuid.New().String()
				factory.CreateProfile(t, userID, "test@example.com", "Test User")
				factory.CreateSubscription(t, userID, models.SubscriptionStatusActive, "price_free_tier",
					0, time.Now(), time.Now().AddDate(1, 0, 0))
				return userID
			},
		},
		{
			name: "user with only canceled subscription",
			want: false,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				userID := uuid.New().String()
				factory.CreateProfile(t, userID, "test@example.com", "Test User")
				factory.CreateSubscription(t, userID, models.SubscriptionStatusCanceled, "price_pro",
					1500, time.Now().AddDate(-1, 0, 0), time.Now())
				return userID
			},
		},
		{
			name: "user with canceled and active subscriptions",
			want: true,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				userID := uuid.New().String()
				factory.CreateProfile(t, userID, "test@example.com", "Test User")
				factory.CreateSubscription(t, userID, models.SubscriptionStatusCanceled, "price_pro",
					1500, time.Now().AddDate(-1, 0, 0), time.Now())
				factory.CreateSubscription(t, userID, models.SubscriptionStatusActive, "price_free_tier",
					0, time.Now(), time.Now().AddDate(1, 0, 0))
				return userID
			},
		},
		{
			name:  "user without subscriptions",
			want:  false,
			setup: func(_ *testing.T, _ *TestDataFactory) string { return uuid.New().String() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userID := tt.setup(t, factory)

			got, err := storage.HasActiveSubscription(context.Background(), userID)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_UpsertSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := uuid.New().String()
	factory.CreateProfile(t, userID, "test@example.com", "Test User")

	now := time.Now().UTC().Truncate(time.Second)
	sub := models.Subscription{
		ID:                 "sub_webhook_1",
		UserID:             userID,
		Status:             models.SubscriptionStatusActive,
		PriceID:            "price_pro",
		Amount:             1500,
		Currency:           "usd",
		Interval:           "month",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
	}

	// Первая доставка события создаёт запись
	require.NoError(t, storage.UpsertSubscription(context.Background(), sub))

	// Повторная доставка с новым статусом обновляет ту же запись
	sub.Status = models.SubscriptionStatusCanceled
	require.NoError(t, storage.UpsertSubscription(context.Background(), sub))

	list, err := storage.ListSubscriptions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.SubscriptionStatusCanceled, list[0].Status)
}

func TestStorage_UpdateSubscriptionStatus(t *testing.T) {
	tests := []struct {
		name             string
		status           string
		wantRowsAffected int
		setup            func(t *testing.T, factory *TestDataFactory) string
	}{
		{
			name:             "successful update status",
			status:           models.SubscriptionStatusPastDue,
			wantRowsAffected: 1,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				userID := uuid.New().String()
				factory.CreateProfile(t, userID, "test@example.com", "Test User")
				return factory.CreateSubscription(t, userID, models.SubscriptionStatusActive, "price_pro",
					1500, time.Now(), time.Now().AddDate(0, 1, 0))
			},
		},
		{
			name:             "update non-existing subscription",
			status:           models.SubscriptionStatusCanceled,
			wantRowsAffected: 0,
			setup:            func(_ *testing.T, _ *TestDataFactory) string { return "sub_missing" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			subscriptionID := tt.setup(t, factory)

			got, err := storage.UpdateSubscriptionStatus(context.Background(), subscriptionID, tt.status)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRowsAffected, got)
		})
	}
}
