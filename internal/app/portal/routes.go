package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/matrimony-portal/portal-api/internal/capability"
	adminreset "github.com/matrimony-portal/portal-api/internal/http/handlers/admin/reset"
	adminusers "github.com/matrimony-portal/portal-api/internal/http/handlers/admin/users"
	"github.com/matrimony-portal/portal-api/internal/http/handlers/auth/login"
	"github.com/matrimony-portal/portal-api/internal/http/handlers/auth/logout"
	"github.com/matrimony-portal/portal-api/internal/http/handlers/auth/refresh"
	"github.com/matrimony-portal/portal-api/internal/http/handlers/auth/register"
	capabilitiesread "github.com/matrimony-portal/portal-api/internal/http/handlers/capabilities/read"
	"github.com/matrimony-portal/portal-api/internal/http/handlers/dashboard/resolve"
	eventaccept "github.com/matrimony-portal/portal-api/internal/http/handlers/event/accept"
	eventcreate "github.com/matrimony-portal/portal-api/internal/http/handlers/event/create"
	eventlist "github.com/matrimony-portal/portal-api/internal/http/handlers/event/list"
	eventread "github.com/matrimony-portal/portal-api/internal/http/handlers/event/read"
	eventregister "github.com/matrimony-portal/portal-api/internal/http/handlers/event/register"
	eventregistrations "github.com/matrimony-portal/portal-api/internal/http/handlers/event/registrations"
	eventstats "github.com/matrimony-portal/portal-api/internal/http/handlers/event/stats"
	"github.com/matrimony-portal/portal-api/internal/http/handlers/health"
	profileblock "github.com/matrimony-portal/portal-api/internal/http/handlers/profile/block"
	profilebrowse "github.com/matrimony-portal/portal-api/internal/http/handlers/profile/browse"
	profileread "github.com/matrimony-portal/portal-api/internal/http/handlers/profile/read"
	profileupdate "github.com/matrimony-portal/portal-api/internal/http/handlers/profile/update"
	proposallist "github.com/matrimony-portal/portal-api/internal/http/handlers/proposal/list"
	proposalrespond "github.com/matrimony-portal/portal-api/internal/http/handlers/proposal/respond"
	proposalsend "github.com/matrimony-portal/portal-api/internal/http/handlers/proposal/send"
	shortlistadd "github.com/matrimony-portal/portal-api/internal/http/handlers/shortlist/add"
	shortlistlist "github.com/matrimony-portal/portal-api/internal/http/handlers/shortlist/list"
	shortlistremove "github.com/matrimony-portal/portal-api/internal/http/handlers/shortlist/remove"
	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/auth"
	eventservice "github.com/matrimony-portal/portal-api/internal/services/event"
	profileservice "github.com/matrimony-portal/portal-api/internal/services/profile"
	proposalservice "github.com/matrimony-portal/portal-api/internal/services/proposal"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// Services собирает сервисы, от которых зависят маршруты портала.
type Services struct {
	Auth     *auth.Service
	Proposal *proposalservice.Service
	Profile  *profileservice.Service
	Event    *eventservice.Service
	Users    UserRepository
	Store    *demostore.Store
	Resolver *capability.Resolver
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(10), 20)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией и серверной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.SessionMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Get("/dashboard", resolve.New(logger).ServeHTTP)
			r.Get("/capabilities", capabilitiesread.New(logger, s.Resolver).ServeHTTP)

			r.Get("/events", eventlist.New(logger, s.Event).ServeHTTP)
			r.Get("/events/{id}", eventread.New(logger, s.Event).ServeHTTP)

			// Конечные точки анкет и предложений доступны только участникам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleUser))

				r.Post("/proposals", proposalsend.New(logger, s.Proposal).ServeHTTP)
				r.Get("/proposals", proposallist.New(logger, s.Proposal).ServeHTTP)
				r.Post("/proposals/{id}/respond", proposalrespond.New(logger, s.Proposal).ServeHTTP)

				r.Get("/profiles", profilebrowse.New(logger, s.Profile).ServeHTTP)
				r.Put("/profiles/me", profileupdate.New(logger, s.Profile).ServeHTTP)
				r.Get("/profiles/{id}", profileread.New(logger, s.Profile).ServeHTTP)
				r.Post("/profiles/{id}/block", profileblock.New(logger, s.Profile).ServeHTTP)

				r.Get("/shortlist", shortlistlist.New(logger, s.Profile).ServeHTTP)
				r.Post("/shortlist/{id}", shortlistadd.New(logger, s.Profile).ServeHTTP)
				r.Delete("/shortlist/{id}", shortlistremove.New(logger, s.Profile).ServeHTTP)

				r.Post("/events/{id}/register", eventregister.New(logger, s.Event).ServeHTTP)
			})

			// Кабинет организатора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleOrganizer))

				r.Post("/events", eventcreate.New(logger, s.Event).ServeHTTP)
				r.Get("/events/{id}/registrations", eventregistrations.New(logger, s.Event).ServeHTTP)
				r.Post("/registrations/{id}/accept", eventaccept.New(logger, s.Event).ServeHTTP)
				r.Get("/organizer/stats", eventstats.New(logger, s.Event).ServeHTTP)
			})

			// Администрирование
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))

				r.Get("/admin/users", adminusers.New(logger, s.Users).ServeHTTP)
				r.Post("/admin/reset", adminreset.New(logger, s.Store).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
