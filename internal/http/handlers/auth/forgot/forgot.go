// Package forgot реализует HTTP-обработчик запроса восстановления пароля.
package forgot

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
)

// Request — почта из JSON-запроса.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Provider описывает часть контракта провайдера идентификации,
// нужную для восстановления пароля.
type Provider interface {
	ResetPassword(ctx context.Context, email string) error
}

// Handler управляет HTTP-запросами на восстановление пароля.
type Handler struct {
	log      *slog.Logger
	provider Provider
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и провайдером.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запросить восстановление пароля
// @Description Просит провайдера идентификации отправить письмо со ссылкой восстановления. Ответ одинаков для существующих и несуществующих адресов.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Почта"
// @Success 200 {object} response.Response "Письмо отправлено, если адрес зарегистрирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgot"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.provider.ResetPassword(r.Context(), req.Email); err != nil {
		log.Error("failed to request password reset", sl.Err(err))
	}

	render.JSON(w, r, response.OKWithData(map[string]string{
		"message": "if the address is registered, a reset email has been sent",
	}))
}
