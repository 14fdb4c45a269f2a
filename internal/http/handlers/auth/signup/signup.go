// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// Handler принимает JSON-запрос с почтой, паролем и именем, вызывает
// оркестратор регистрации (аккаунт у провайдера, профиль, бесплатная
// подписка) и возвращает данные созданного аккаунта.
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/identity"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	profileservice "github.com/magabrotheeeer/jobtrack/internal/services/profile"
)

// Request — данные регистрации из JSON-запроса.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
}

// Service описывает интерфейс оркестратора регистрации.
type Service interface {
	Register(ctx context.Context, email, password, fullName string) (*identity.Account, error)
}

// Handler управляет HTTP-запросами на регистрацию.
type Handler struct {
	log      *slog.Logger // Логгер для записи информации и ошибок
	service  Service      // Оркестратор регистрации
	validate *validator.Validate
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
// @Summary Зарегистрировать пользователя
// @Description Создает аккаунт у провайдера идентификации, внутренний профиль и бесплатную подписку.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 200 {object} response.Response "Аккаунт создан, письмо подтверждения отправлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или аккаунт уже существует"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации"
// @Router /auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"
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
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	account, err := h.service.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		var providerErr *identity.ProviderError
		switch {
		case errors.Is(err, identity.ErrInvalidEmail):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("please enter a valid email address"))
		case errors.Is(err, identity.ErrWeakPassword):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("password must be at least 6 characters"))
		case errors.Is(err, profileservice.ErrProfileCreationFailed):
			log.Error("failed to create profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("error updating user, please try again"))
		case errors.As(err, &providerErr):
			log.Error("identity provider rejected signup", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(providerErr.Message))
		default:
			log.Error("failed to register user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register user"))
		}
		return
	}

	log.Info("user registered", sl.UserID(account.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account_id": account.ID,
		"email":      account.Email,
		"message":    "check your email to confirm your account",
	}))
}
