// Package list реализует HTTP-обработчик списка сообщений пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// Service описывает интерфейс бизнес-логики списка сообщений.
type Service interface {
	ListMessages(ctx context.Context, userID string, unreadOnly bool) ([]*models.Message, error)
}

// Handler управляет HTTP-запросами списка сообщений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список сообщений
// @Description Возвращает входящие и исходящие сообщения пользователя,
// @Description свежие первыми. При unread=true — только непрочитанные входящие.
// @Tags Messages
// @Produce  json
// @Security BearerAuth
// @Param unread query bool false "Только непрочитанные"
// @Success 200 {object} response.Response "Список сообщений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /messages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, ok := middlewarectx.AccountIDFromContext(r.Context())
	if !ok {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	items, err := h.service.ListMessages(r.Context(), accountID, unreadOnly)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list messages"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"messages": items,
		"count":    len(items),
	}))
}
