// Package block реализует HTTP-обработчик добавления анкеты в черный список.
// Заблокированные анкеты исчезают из поиска, их владельцы не могут слать предложения.
package block

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

// Handler обрабатывает HTTP-запросы блокировки анкет.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики блокировки.
type Service interface {
	Block(ctx context.Context, sess models.Session, profileID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заблокировать анкету
// @Description Добавляет анкету в черный список пользователя.
// @Tags Profiles
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор анкеты"
// @Success 200 {object} response.Response "Анкета заблокирована"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profiles/{id}/block [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.block"

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
	if err := h.service.Block(r.Context(), sess, profileID); err != nil {
		if errors.Is(err, demostore.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to block profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not block profile"))
		return
	}

	log.Info("profile blocked", slog.String("profile_id", profileID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"blocked": profileID,
	}))
}
