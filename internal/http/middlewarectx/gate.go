package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	access "github.com/magabrotheeeer/jobtrack/internal/services/access"
)

// AccessGate принимает решение о допуске запроса к защищённому разделу.
type AccessGate interface {
	Authorize(ctx context.Context, accountID string) access.Decision
}

// SubscriptionGateMiddleware создает middleware, пропускающий к защищённым
// разделам только аутентифицированных пользователей с активной подпиской.
//
// При отказе возвращается 401 или 402 с целью перенаправления в теле ответа:
// клиент сам решает, уводить ли пользователя на /sign-in или /pricing.
func SubscriptionGateMiddleware(gate AccessGate, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, _ := AccountIDFromContext(r.Context())

			decision := gate.Authorize(r.Context(), accountID)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			status := http.StatusPaymentRequired
			if decision.RedirectTarget == access.RedirectSignIn {
				status = http.StatusUnauthorized
			}
			log.Info("request denied by subscription gate",
				slog.String("redirect_target", decision.RedirectTarget))
			w.WriteHeader(status)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "access denied",
				Data:   decision,
			})
		})
	}
}
