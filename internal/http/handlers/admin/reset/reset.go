// Package reset реализует HTTP-обработчик сброса демо-данных:
// файл состояния отбрасывается, исходный снапшот перечитывается.
package reset

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы сброса демо-данных.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сброса демо-хранилища.
type Service interface {
	Reset() error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сброс демо-данных
// @Description Затирает все записи сессии и перечитывает исходный снапшот. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Демо-данные сброшены"
// @Failure 401 {object} response.RedirectResponse "Доступ только администраторам"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Reset(); err != nil {
		log.Error("failed to reset demo data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reset demo data"))
		return
	}

	log.Info("demo data reset")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reset": true,
	}))
}
