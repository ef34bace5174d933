// Package stats реализует HTTP-обработчик статистики организатора:
// количество мероприятий, заявок и выручка по подтвержденным оплатам.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
)

// Handler обрабатывает HTTP-запросы статистики организатора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики.
type Service interface {
	Stats(ctx context.Context, sess models.Session) (*models.OrganizerStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика организатора
// @Description Возвращает сводку по мероприятиям организатора текущей сессии.
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Статистика"
// @Failure 401 {object} response.RedirectResponse "Доступ только организаторам"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /organizer/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Unauthorized("authentication required"))
		return
	}

	st, err := h.service.Stats(r.Context(), sess)
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute stats"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(st))
}
