// Package resolve реализует HTTP-обработчик выбора личного кабинета.
//
// Кабинет определяется ролью и подпиской из сессии. Пока статус подписки
// неизвестен, возвращается 202 с состоянием pending: клиент показывает
// индикатор загрузки и повторяет запрос.
package resolve

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/dashboard"
	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выбора кабинета.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выбор личного кабинета
// @Description Возвращает маршрут кабинета по роли и подписке текущей сессии.
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Маршрут кабинета"
// @Success 202 {object} map[string]any "Статус подписки ещё неизвестен"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.resolve"

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

	res := dashboard.Resolve(sess.Role, sess.SubscriptionStatus, sess.SubscriptionTier)
	if res.State == dashboard.StatePending {
		log.Info("subscription status pending", slog.String("user_uid", sess.UserUID))
		w.WriteHeader(http.StatusAccepted)
		render.JSON(w, r, response.StatusOKWithData(res))
		return
	}

	log.Info("dashboard resolved",
		slog.String("user_uid", sess.UserUID),
		slog.String("route", res.Route))
	render.JSON(w, r, response.StatusOKWithData(res))
}
