// Package read реализует HTTP-обработчик просмотра анкеты.
//
// Просмотр чужой анкеты расходует дневную квоту бесплатного тарифа;
// исчерпанная квота возвращает 429 с предложением перейти на premium.
package read

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
	"github.com/matrimony-portal/portal-api/internal/services/profile"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// Handler обрабатывает HTTP-запросы просмотра анкеты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики просмотра анкеты.
type Service interface {
	View(ctx context.Context, sess models.Session, profileID string) (*models.Profile, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Просмотр анкеты
// @Description Возвращает анкету по идентификатору. Просмотр чужих анкет ограничен дневной квотой бесплатного тарифа.
// @Tags Profiles
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор анкеты"
// @Success 200 {object} map[string]any "Анкета"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 429 {object} response.ErrorResponse "Дневная квота просмотров исчерпана"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profiles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

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
	p, err := h.service.View(r.Context(), sess, profileID)
	if err != nil {
		switch {
		case errors.Is(err, demostore.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		case errors.Is(err, profile.ErrViewLimitReached):
			log.Info("daily view limit reached", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to view profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not view profile"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(p))
}
