// Package register реализует HTTP-обработчик регистрации пользователя
// на мероприятие. Заявка создается со статусом оплаты PENDING.
package register

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

// Handler обрабатывает HTTP-запросы регистрации на мероприятие.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, sess models.Session, eventID string) (*models.EventRegistration, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Зарегистрироваться на мероприятие
// @Description Создает заявку на участие со статусом оплаты PENDING.
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор мероприятия"
// @Success 200 {object} map[string]any "Созданная заявка"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Мероприятие не найдено"
// @Failure 409 {object} response.ErrorResponse "Повторная регистрация или нет мест"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/{id}/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.register"

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
	reg, err := h.service.Register(r.Context(), sess, eventID)
	if err != nil {
		switch {
		case errors.Is(err, demostore.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, event.ErrAlreadyRegistered), errors.Is(err, event.ErrCapacityReached):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to register for event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register for event"))
		}
		return
	}

	log.Info("event registration created",
		slog.String("event_id", eventID),
		slog.String("registration_id", reg.ID))
	render.JSON(w, r, response.StatusOKWithData(reg))
}
