// Package list реализует HTTP-обработчик каталога вакансий.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jobtrack/internal/http/response"
	"github.com/magabrotheeeer/jobtrack/internal/lib/sl"
	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога вакансий.
type Service interface {
	ListJobs(ctx context.Context, limit int) ([]*models.Job, error)
	SearchJobs(ctx context.Context, query, location string) ([]*models.Job, error)
}

// Handler управляет HTTP-запросами каталога вакансий.
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
// @Summary Получить каталог вакансий
// @Description Возвращает активные вакансии каталога, свежие первыми.
// @Description Параметр q включает поиск по компании, должности и описанию,
// @Description location дополнительно сужает поиск по локации.
// @Tags Jobs
// @Produce  json
// @Security BearerAuth
// @Param q query string false "Поисковый запрос"
// @Param location query string false "Фильтр по локации"
// @Param limit query int false "Максимум записей (по умолчанию 50)"
// @Success 200 {object} response.Response "Список вакансий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /jobs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var items []*models.Job
	var err error
	if query := r.URL.Query().Get("q"); query != "" {
		items, err = h.service.SearchJobs(r.Context(), query, r.URL.Query().Get("location"))
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err = h.service.ListJobs(r.Context(), limit)
	}
	if err != nil {
		log.Error("failed to list jobs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list jobs"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"jobs":  items,
		"count": len(items),
	}))
}
