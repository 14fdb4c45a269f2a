// Package read реализует HTTP-обработчик чтения одного отклика.
package read

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/jobtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения отклика.
type Service interface {
	ReadApplication(ctx context.Context, id, userID string) (*models.Application, error)
}

// Handler управляет HTTP-запросами чтения отклика.
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
// @Summary Получить отклик по ID
// @Description Возвращает отклик текущего пользователя по идентификатору.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID отклика"
// @Success 200 {object} response.Response "Отклик"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Отклик не найден"
// @Router /applications/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.read"
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

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("invalid application id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid application id"))
		return
	}

	app, err := h.service.ReadApplication(r.Context(), id, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("application not found"))
			return
		}
		log.Error("failed to read application", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read application"))
		return
	}

	render.JSON(w, r, response.OKWithData(app))
}
