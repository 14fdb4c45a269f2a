// Package signout реализует HTTP-обработчик выхода из системы.
package signout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
)

// Provider описывает часть контракта провайдера идентификации,
// нужную для выхода.
type Provider interface {
	SignOut(ctx context.Context, accessToken string) error
}

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log      *slog.Logger
	provider Provider
}

// New создает новый Handler с переданными логгером и провайдером.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
	}
}

// ServeHTTP godoc
// @Summary Выйти из системы
// @Description Инвалидирует сессию с текущим токеном доступа у провайдера идентификации.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Сессия завершена"
// @Failure 401 {object} response.ErrorResponse "Нет токена доступа"
// @Router /auth/signout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Error("missing authorization header")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization header"))
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.provider.SignOut(r.Context(), token); err != nil {
		log.Error("failed to sign out", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sign out"))
		return
	}

	log.Info("user signed out")
	render.JSON(w, r, response.OK())
}
