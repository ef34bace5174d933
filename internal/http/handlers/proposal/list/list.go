// Package list реализует HTTP-обработчик списка предложений пользователя:
// отправленные и полученные, вместе с остатком дневной квоты.
package list

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
	"github.com/matrimony-portal/portal-api/internal/services/proposal"
)

// Handler обрабатывает HTTP-запросы списка предложений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка предложений.
type Service interface {
	List(ctx context.Context, sess models.Session) (*proposal.Inbox, error)
	QuotaLeft(ctx context.Context, sess models.Session) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список предложений пользователя
// @Description Возвращает отправленные и полученные предложения и остаток дневной квоты.
// @Tags Proposals
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Предложения пользователя"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /proposals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.list"

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

	inbox, err := h.service.List(r.Context(), sess)
	if err != nil {
		log.Error("failed to list proposals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list proposals"))
		return
	}

	left, err := h.service.QuotaLeft(r.Context(), sess)
	if err != nil {
		log.Error("failed to read proposal quota", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read quota"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sent":       inbox.Sent,
		"received":   inbox.Received,
		"quota_left": left,
	}))
}
