package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobtrack/internal/http/response"
)

// Checker проверяет готовность зависимостей сервиса.
type Checker func() error

// Handler отвечает на проверки живости и готовности.
type Handler struct {
	log   *slog.Logger
	check Checker
}

// New создает новый Handler с переданными логгером и проверкой готовности.
func New(log *slog.Logger, check Checker) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	if h.check != nil {
		if err := h.check(); err != nil {
			h.log.Error("readiness check failed", slog.String("op", op), slog.Any("err", err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
