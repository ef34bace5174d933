// Package read реализует HTTP-обработчик просмотра мероприятия.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// Handler обрабатывает HTTP-запросы просмотра мероприятия.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики просмотра мероприятия.
type Service interface {
	Get(ctx context.Context, eventID string) (*models.Event, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Просмотр мероприятия
// @Description Возвращает мероприятие по идентификатору.
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор мероприятия"
// @Success 200 {object} map[string]any "Мероприятие"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Мероприятие не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "id")
	ev, err := h.service.Get(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, demostore.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}
		log.Error("failed to read event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read event"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(ev))
}
