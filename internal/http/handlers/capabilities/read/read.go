// Package read реализует HTTP-обработчик выдачи возможностей пользователя.
//
// Возможности вычисляются из сессии при каждом запросе и нигде не хранятся.
package read

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/capability"
	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
)

// Handler обрабатывает HTTP-запросы чтения возможностей.
type Handler struct {
	log      *slog.Logger
	resolver *capability.Resolver
}

// New создает новый Handler с переданными логгером и резолвером.
func New(log *slog.Logger, resolver *capability.Resolver) *Handler {
	return &Handler{log: log, resolver: resolver}
}

// ServeHTTP godoc
// @Summary Возможности пользователя
// @Description Возвращает набор возможностей, производный от роли и подписки.
// @Tags Capabilities
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Набор возможностей"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Router /capabilities [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capabilities.read"

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

	caps := h.resolver.Resolve(sess)
	render.JSON(w, r, response.StatusOKWithData(caps))
}
