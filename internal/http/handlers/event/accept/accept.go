// Package accept реализует HTTP-обработчик подтверждения оплаты заявки:
// статус PENDING переходит в PAID, участнику отправляется уведомление.
package accept

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

// Handler обрабатывает HTTP-запросы подтверждения оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	Accept(ctx context.Context, sess models.Session, registrationID string) (*models.EventRegistration, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату заявки
// @Description Переводит заявку из PENDING в PAID и уведомляет участника.
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор заявки"
// @Success 200 {object} map[string]any "Подтвержденная заявка"
// @Failure 401 {object} response.RedirectResponse "Доступ только организаторам"
// @Failure 403 {object} response.ErrorResponse "Мероприятие другого организатора"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже подтверждена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /registrations/{id}/accept [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.accept"

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

	registrationID := chi.URLParam(r, "id")
	reg, err := h.service.Accept(r.Context(), sess, registrationID)
	if err != nil {
		switch {
		case errors.Is(err, demostore.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("registration not found"))
		case errors.Is(err, event.ErrNotOwner):
			log.Error("event belongs to another organizer", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, event.ErrAlreadyPaid):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to accept registration", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not accept registration"))
		}
		return
	}

	log.Info("registration accepted", slog.String("registration_id", reg.ID))
	render.JSON(w, r, response.StatusOKWithData(reg))
}
