// Package remove реализует HTTP-обработчик удаления анкеты из избранного.
package remove

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
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// Handler обрабатывает HTTP-запросы удаления из избранного.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики избранного.
type Service interface {
	ShortlistRemove(ctx context.Context, sess models.Session, profileID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Убрать анкету из избранного
// @Description Удаляет анкету из избранного пользователя.
// @Tags Shortlist
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор анкеты"
// @Success 200 {object} response.Response "Анкета убрана из избранного"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкеты нет в избранном"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /shortlist/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shortlist.remove"

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

	profileID := chi.URLParam(r, "id")
	if err := h.service.ShortlistRemove(r.Context(), sess, profileID); err != nil {
		if errors.Is(err, demostore.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile is not in shortlist"))
			return
		}
		log.Error("failed to remove from shortlist", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove from shortlist"))
		return
	}

	log.Info("profile removed from shortlist", slog.String("profile_id", profileID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": profileID,
	}))
}
