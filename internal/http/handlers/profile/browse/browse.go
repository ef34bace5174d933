// Package browse реализует HTTP-обработчик поиска анкет с фильтрами.
//
// Базовые фильтры доступны всем, расширенные — только при возможности
// CanUseAdvancedFilters.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/profile"
)

// Handler обрабатывает HTTP-запросы поиска анкет.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска анкет.
type Service interface {
	Browse(ctx context.Context, sess models.Session, filter models.ProfileFilter) ([]models.Profile, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск анкет
// @Description Возвращает анкеты по фильтрам. Расширенные фильтры education и income требуют premium.
// @Tags Profiles
// @Produce  json
// @Security BearerAuth
// @Param gender query string false "Пол"
// @Param city query string false "Город"
// @Param religion query string false "Религия"
// @Param age_min query int false "Минимальный возраст"
// @Param age_max query int false "Максимальный возраст"
// @Param education query string false "Образование (premium)"
// @Param income query string false "Доход (premium)"
// @Success 200 {object} map[string]any "Найденные анкеты"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Расширенные фильтры требуют premium"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profiles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.browse"

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

	q := r.URL.Query()
	filter := models.ProfileFilter{
		Gender:    q.Get("gender"),
		City:      q.Get("city"),
		Religion:  q.Get("religion"),
		Education: q.Get("education"),
		Income:    q.Get("income"),
	}
	filter.AgeMin, _ = strconv.Atoi(q.Get("age_min"))
	filter.AgeMax, _ = strconv.Atoi(q.Get("age_max"))

	profiles, err := h.service.Browse(r.Context(), sess, filter)
	if err != nil {
		if errors.Is(err, profile.ErrPremiumRequired) {
			log.Info("advanced filters denied", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to browse profiles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not browse profiles"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	}))
}
