// Package services реализует шлюз доступа к платным разделам приложения.
package services

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
)

// Цели перенаправления при отказе в доступе.
const (
	RedirectSignIn  = "/sign-in"
	RedirectPricing = "/pricing"
)

var deniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobtrack_access_denied_total",
	Help: "Количество отказов в доступе по цели перенаправления.",
}, []string{"target"})

// Decision — результат проверки доступа.
type Decision struct {
	Allowed        bool   `json:"allowed"`
	RedirectTarget string `json:"redirect_target,omitempty"`
}

// SubscriptionChecker отвечает, активна ли подписка аккаунта.
type SubscriptionChecker interface {
	IsActive(ctx context.Context, accountID string) bool
}

// Gate принимает решение о допуске запроса к защищённому разделу.
type Gate struct {
	checker SubscriptionChecker
	log     *slog.Logger
}

// NewGate создает новый экземпляр Gate.
func NewGate(checker SubscriptionChecker, log *slog.Logger) *Gate {
	return &Gate{
		checker: checker,
		log:     log,
	}
}

// Authorize проверяет запрос к защищённому разделу.
//
// Порядок фиксированный: сначала аутентификация, затем подписка.
// Анонимный запрос уходит на /sign-in, запрос без активной подписки —
// на /pricing.
func (g *Gate) Authorize(ctx context.Context, accountID string) Decision {
	if accountID == "" {
		deniedTotal.WithLabelValues(RedirectSignIn).Inc()
		return Decision{Allowed: false, RedirectTarget: RedirectSignIn}
	}
	if !g.checker.IsActive(ctx, accountID) {
		g.log.Info("denied access without active subscription", sl.UserID(accountID))
		deniedTotal.WithLabelValues(RedirectPricing).Inc()
		return Decision{Allowed: false, RedirectTarget: RedirectPricing}
	}
	return Decision{Allowed: true}
}
