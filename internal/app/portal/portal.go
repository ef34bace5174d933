// Package portal собирает HTTP-приложение портала: хранилища, кеш,
// брокер уведомлений, сервисы и маршруты.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/matrimony-portal/portal-api/internal/cache"
	"github.com/matrimony-portal/portal-api/internal/capability"
	"github.com/matrimony-portal/portal-api/internal/config"
	"github.com/matrimony-portal/portal-api/internal/lib/jwt"
	"github.com/matrimony-portal/portal-api/internal/lib/rabbitmq"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/migrations"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/auth"
	eventservice "github.com/matrimony-portal/portal-api/internal/services/event"
	profileservice "github.com/matrimony-portal/portal-api/internal/services/profile"
	proposalservice "github.com/matrimony-portal/portal-api/internal/services/proposal"
	"github.com/matrimony-portal/portal-api/internal/session"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
	"github.com/matrimony-portal/portal-api/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер портала и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	store  *demostore.Store
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// UserRepository объединяет контракты работы с пользователями,
// нужные сервисам портала.
type UserRepository interface {
	auth.UserRepository
	SetUserProfileID(ctx context.Context, userUID, profileID string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// New создает приложение портала из конфигурации.
//
// Демо-хранилище открывается всегда: оно заменяет внешний бэкенд
// знакомств. Учетные записи живут в нем же в демо-режиме и в
// PostgreSQL в остальных окружениях.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := demostore.New(cfg.SeedPath, cfg.StatePath, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Open(); err != nil {
		return nil, err
	}

	var (
		db    *repository.Storage
		users UserRepository
	)
	if cfg.IsDemo() {
		users = demostore.NewUserAdapter(store)
	} else {
		db, err = repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		users = db
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}
	sessions := session.NewStore(cacheRedis, cfg.RefreshTTL, cfg.RefreshTTL)
	maker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	var (
		conn      *amqp.Connection
		ch        *amqp.Channel
		publisher *rabbitmq.Publisher
	)
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			conn.Close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, notifications disabled")
	}

	resolver := capability.NewResolver(capability.Limits{
		FreeDailyProposals:    cfg.FreeDailyProposalLimit,
		FreeDailyProfileViews: cfg.FreeDailyProfileViewLimit,
	})

	authService := auth.NewService(users, maker, sessions, logger)
	proposalService := newProposalService(store, cacheRedis, resolver, publisher, logger)
	profileService := profileservice.NewService(store, cacheRedis, resolver, users, logger)
	eventService := newEventService(store, users, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:     authService,
		Proposal: proposalService,
		Profile:  profileService,
		Event:    eventService,
		Users:    users,
		Store:    store,
		Resolver: resolver,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		store:  store,
		conn:   conn,
		ch:     ch,
	}, nil
}

// nil-публикатор нельзя передавать как интерфейс напрямую: типизированный
// nil перестает сравниваться с nil внутри сервиса.
func newProposalService(store *demostore.Store, quota proposalservice.QuotaCounter, resolver *capability.Resolver, publisher *rabbitmq.Publisher, logger *slog.Logger) *proposalservice.Service {
	var p proposalservice.Publisher
	if publisher != nil {
		p = publisher
	}
	return proposalservice.NewService(store, quota, resolver, p, logger)
}

func newEventService(store *demostore.Store, users eventservice.Users, publisher *rabbitmq.Publisher, logger *slog.Logger) *eventservice.Service {
	var p eventservice.Publisher
	if publisher != nil {
		p = publisher
	}
	return eventservice.NewService(store, users, p, logger)
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.DB.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
}
