package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/response"
)

// RequireRoles создает middleware, пропускающий только перечисленные роли.
//
// Несоответствие роли, как и отсутствие аутентификации, возвращается как
// 401 с адресом страницы входа: клиент не различает "нет прав" и
// "не вошел", чтобы не раскрывать существование закрытых разделов.
func RequireRoles(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRoles"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(string)
			if !ok || !allowed[role] {
				log.Error("access denied", slog.String("role", role))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Unauthorized("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
