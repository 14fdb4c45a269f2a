package repository

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/identity/identitystub"
	accessservice "github.com/magabrotheeeer/jobtrack/internal/services/access"
	billingservice "github.com/magabrotheeeer/jobtrack/internal/services/billing"
	profileservice "github.com/magabrotheeeer/jobtrack/internal/services/profile"
	signupservice "github.com/magabrotheeeer/jobtrack/internal/services/signup"
	subservice "github.com/magabrotheeeer/jobtrack/internal/services/subscription"
)

// recordingPublisher собирает задачи очереди повторных попыток в память.
type recordingPublisher struct {
	tasks []any
}

func (p *recordingPublisher) Publish(message any) error {
	p.tasks = append(p.tasks, message)
	return nil
}

// signupStack — полный путь регистрации поверх настоящего хранилища
// и заглушки провайдера идентификации.
type signupStack struct {
	signup   *signupservice.SignupService
	resolver *subservice.StatusResolver
	gate     *accessservice.Gate
	billing  *billingservice.BillingService
	retries  *recordingPublisher
}

func newSignupStack(t *testing.T, storage *Storage) *signupStack {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stub := identitystub.New("integration-test-secret", time.Hour)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	client := identity.NewClient(srv.URL, "test-api-key")

	retries := &recordingPublisher{}
	profiles := profileservice.NewProfileService(storage, logger)
	provisioner := subservice.NewProvisioner(storage, storage, retries, logger)
	resolver := subservice.NewStatusResolver(storage, storage, logger)

	return &signupStack{
		signup:   signupservice.NewSignupService(client, profiles, provisioner, logger),
		resolver: resolver,
		gate:     accessservice.NewGate(resolver, logger),
		billing:  billingservice.NewBillingService(storage, storage, logger),
		retries:  retries,
	}
}

// Регистрация проходит весь путь: аккаунт у провайдера, профиль,
// бесплатная подписка — и резолвер видит её сразу, без устаревших чтений.
func TestSignupFlow_EndToEnd(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	stack := newSignupStack(t, storage)
	ctx := context.Background()

	account, err := stack.signup.Register(ctx, "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)

	verify := NewTestVerification(storage)
	verify.VerifyProfileExists(t, account.ID)
	verify.VerifySubscriptionExists(t, "free_"+account.ID)
	verify.VerifyProfileSubscriptionStatus(t, account.ID, "active")

	assert.True(t, stack.resolver.IsActive(ctx, account.ID))

	decision := stack.gate.Authorize(ctx, account.ID)
	assert.True(t, decision.Allowed)

	// Очередь повторов пуста: выдача прошла с первой попытки.
	assert.Empty(t, stack.retries.tasks)

	// Аноним и незнакомый аккаунт получают свои цели перенаправления.
	decision = stack.gate.Authorize(ctx, "")
	assert.Equal(t, accessservice.RedirectSignIn, decision.RedirectTarget)

	decision = stack.gate.Authorize(ctx, uuid.New().String())
	assert.Equal(t, accessservice.RedirectPricing, decision.RedirectTarget)
}

// Слабый пароль отсекается до сетевого вызова: ни профиля, ни подписки.
func TestSignupFlow_WeakPasswordLeavesNoTraces(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	stack := newSignupStack(t, storage)

	account, err := stack.signup.Register(context.Background(), "carol@example.com", "123", "Carol")
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
	assert.Nil(t, account)

	var profiles int
	require.NoError(t, storage.DB.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&profiles))
	assert.Zero(t, profiles)
}

// Отмена подписки через событие биллинга закрывает доступ живому резолверу.
func TestSignupFlow_WebhookCancellationClosesAccess(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	stack := newSignupStack(t, storage)
	ctx := context.Background()

	account, err := stack.signup.Register(ctx, "bob@example.com", "secret123", "Bob")
	require.NoError(t, err)
	require.True(t, stack.resolver.IsActive(ctx, account.ID))

	event := &billingservice.Event{
		ID:   "evt-1",
		Type: billingservice.EventSubscriptionCanceled,
	}
	event.Object.SubscriptionID = "free_" + account.ID
	event.Object.UserID = account.ID

	require.NoError(t, stack.billing.ProcessEvent(ctx, event))

	assert.False(t, stack.resolver.IsActive(ctx, account.ID))

	decision := stack.gate.Authorize(ctx, account.ID)
	assert.False(t, decision.Allowed)
	assert.Equal(t, accessservice.RedirectPricing, decision.RedirectTarget)
}
