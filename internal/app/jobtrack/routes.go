// Package jobtrack собирает основное приложение трекера вакансий
// и регистрирует его маршруты.
package jobtrack

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	applicationcreate "github.com/magabrotheeeer/jobtrack/internal/http/handlers/application/create"
	applicationlist "github.com/magabrotheeeer/jobtrack/internal/http/handlers/application/list"
	applicationread "github.com/magabrotheeeer/jobtrack/internal/http/handlers/application/read"
	applicationupdate "github.com/magabrotheeeer/jobtrack/internal/http/handlers/application/update"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/auth/forgot"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/auth/resend"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/auth/signin"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/auth/signout"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/billing/webhook"
	contactcreate "github.com/magabrotheeeer/jobtrack/internal/http/handlers/contact/create"
	contactlist "github.com/magabrotheeeer/jobtrack/internal/http/handlers/contact/list"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/dashboard/summary"
	"github.com/magabrotheeeer/jobtrack/internal/http/handlers/health"
	interviewcreate "github.com/magabrotheeeer/jobtrack/internal/http/handlers/interview/create"
	interviewlist "github.com/magabrotheeeer/jobtrack/internal/http/handlers/interview/list"
	joblist "github.com/magabrotheeeer/jobtrack/internal/http/handlers/job/list"
	jobread "github.com/magabrotheeeer/jobtrack/internal/http/handlers/job/read"
	messagelist "github.com/magabrotheeeer/jobtrack/internal/http/handlers/message/list"
	messagemarkread "github.com/magabrotheeeer/jobtrack/internal/http/handlers/message/markread"
	messagesend "github.com/magabrotheeeer/jobtrack/internal/http/handlers/message/send"
	referralcreate "github.com/magabrotheeeer/jobtrack/internal/http/handlers/referral/create"
	referrallist "github.com/magabrotheeeer/jobtrack/internal/http/handlers/referral/list"
	"github.com/magabrotheeeer/jobtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/lib/jwt"
	accessservice "github.com/magabrotheeeer/jobtrack/internal/services/access"
	billingservice "github.com/magabrotheeeer/jobtrack/internal/services/billing"
	signupservice "github.com/magabrotheeeer/jobtrack/internal/services/signup"
	trackerservice "github.com/magabrotheeeer/jobtrack/internal/services/tracker"
)

// RouteDeps содержит зависимости, необходимые для регистрации маршрутов.
type RouteDeps struct {
	Provider      identity.Provider
	Maker         jwt.Maker
	Gate          *accessservice.Gate
	Signup        *signupservice.SignupService
	Tracker       *trackerservice.TrackerService
	Billing       *billingservice.BillingService
	WebhookSecret string
	HealthCheck   health.Checker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps *RouteDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки: лимитер прикрывает перебор паролей.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/signup", signup.New(logger, deps.Signup).ServeHTTP)
			r.Post("/auth/signin", signin.New(logger, deps.Provider).ServeHTTP)
			r.Post("/auth/signout", signout.New(logger, deps.Provider).ServeHTTP)
			r.Post("/auth/resend", resend.New(logger, deps.Provider).ServeHTTP)
			r.Post("/auth/forgot", forgot.New(logger, deps.Provider).ServeHTTP)
		})

		// Группа с JWT аутентификацией и проверкой подписки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Maker, logger))
			r.Use(middlewarectx.SubscriptionGateMiddleware(deps.Gate, logger))
			r.Get("/dashboard/summary", summary.New(logger, deps.Tracker).ServeHTTP)
			r.Post("/applications", applicationcreate.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/applications", applicationlist.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/applications/{id}", applicationread.New(logger, deps.Tracker).ServeHTTP)
			r.Put("/applications/{id}", applicationupdate.New(logger, deps.Tracker).ServeHTTP)
			r.Post("/interviews", interviewcreate.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/interviews", interviewlist.New(logger, deps.Tracker).ServeHTTP)
			r.Post("/referrals", referralcreate.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/referrals", referrallist.New(logger, deps.Tracker).ServeHTTP)
			r.Post("/contacts", contactcreate.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/contacts", contactlist.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/jobs", joblist.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/jobs/{id}", jobread.New(logger, deps.Tracker).ServeHTTP)
			r.Post("/messages", messagesend.New(logger, deps.Tracker).ServeHTTP)
			r.Get("/messages", messagelist.New(logger, deps.Tracker).ServeHTTP)
			r.Put("/messages/{id}/read", messagemarkread.New(logger, deps.Tracker).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/billing/webhook", webhook.New(logger, deps.Billing, deps.WebhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger, deps.HealthCheck).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
