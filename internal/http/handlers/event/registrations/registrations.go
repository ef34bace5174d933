// Package registrations реализует HTTP-обработчик списка заявок на
// мероприятие. Доступен только организатору-владельцу.
package registrations

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/event"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// Handler обрабатывает HTTP-запросы списка заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка заявок.
type Service interface {
	Registrations(ctx context.Context, sess models.Session, eventID string) ([]models.EventRegistration, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заявки на мероприятие
// @Description Возвращает заявки на мероприятие организатора-владельца.
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор мероприятия"
// @Success 200 {object} map[string]any "Заявки"
// @Failure 401 {object} response.RedirectResponse "Доступ только организаторам"
// @Failure 403 {object} response.ErrorResponse "Мероприятие другого организатора"
// @Failure 404 {object} response.ErrorResponse "Мероприятие не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/{id}/registrations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.registrations"

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

	eventID := chi.URLParam(r, "id")
	regs, err := h.service.Registrations(r.Context(), sess, eventID)
	if err != nil {
		switch {
		case errors.Is(err, demostore.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, event.ErrNotOwner):
			log.Error("event belongs to another organizer", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to list registrations", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list registrations"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"registrations": regs,
		"count":         len(regs),
	}))
}
