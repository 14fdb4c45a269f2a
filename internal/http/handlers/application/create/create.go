// Package create реализует HTTP-обработчик создания отклика на вакансию.
//
// Handler принимает JSON-запрос с данными отклика, валидирует их, извлекает
// идентификатор аккаунта из контекста, вызывает бизнес-логику через сервис
// и возвращает ID созданной записи в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jobtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// Service описывает интерфейс бизнес-логики создания отклика.
type Service interface {
	CreateApplication(ctx context.Context, userID string, req models.DummyApplication) (string, error)
}

// Handler управляет HTTP-запросами на создание откликов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать отклик на вакансию
// @Description Создает новый отклик для текущего пользователя. Возвращает ID созданной записи.
// @Tags Applications
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyApplication true "Данные нового отклика"
// @Success 200 {object} response.Response "Успешное создание отклика"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании отклика"
// @Router /applications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyApplication
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	accountID, ok := middlewarectx.AccountIDFromContext(r.Context())
	if !ok {
		log.Error("account id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.CreateApplication(r.Context(), accountID, req)
	if err != nil {
		log.Error("failed to create application", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create application"))
		return
	}

	log.Info("created application", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
