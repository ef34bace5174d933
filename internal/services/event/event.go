// Package event содержит бизнес-логику мероприятий организаторов:
// создание, регистрацию участников, подтверждение оплаты и статистику.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matrimony-portal/portal-api/internal/lib/rabbitmq"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// ErrNotOwner возвращается при попытке управлять чужим мероприятием.
var ErrNotOwner = errors.New("event belongs to another organizer")

// ErrCapacityReached возвращается, когда на мероприятии не осталось мест.
var ErrCapacityReached = errors.New("event capacity reached")

// ErrAlreadyRegistered возвращается при повторной регистрации на мероприятие.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrAlreadyPaid возвращается при повторном подтверждении оплаты.
var ErrAlreadyPaid = errors.New("registration already confirmed")

// DataStore описывает операции демо-хранилища, необходимые сервису.
type DataStore interface {
	GetAll(collection string) []demostore.Record
	GetByID(collection, id string) demostore.Record
	GetByFilter(collection string, predicate func(demostore.Record) bool) []demostore.Record
	Create(collection string, item demostore.Record) (demostore.Record, error)
	Update(collection, id string, patch demostore.Record) (demostore.Record, error)
}

// Users описывает чтение учетных записей для писем уведомлений.
type Users interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Publisher описывает публикацию уведомлений в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service отвечает за жизненный цикл мероприятий.
type Service struct {
	store     DataStore
	users     Users
	publisher Publisher
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(store DataStore, users Users, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		users:     users,
		publisher: publisher,
		log:       log,
	}
}

// Create сохраняет новое мероприятие от имени организатора сессии.
func (s *Service) Create(_ context.Context, sess models.Session, req models.DummyEvent) (*models.Event, error) {
	const op = "event.Create"

	rec, err := s.store.Create(demostore.CollectionEvents, demostore.Record{
		"organizerUid": sess.UserUID,
		"title":        req.Title,
		"description":  req.Description,
		"city":         req.City,
		"venue":        req.Venue,
		"date":         req.Date,
		"price":        req.Price,
		"capacity":     req.Capacity,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var ev models.Event
	if err := demostore.Decode(rec, &ev); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ev, nil
}

// List возвращает все мероприятия.
func (s *Service) List(_ context.Context) ([]models.Event, error) {
	const op = "event.List"

	out := []models.Event{}
	for _, rec := range s.store.GetAll(demostore.CollectionEvents) {
		var ev models.Event
		if err := demostore.Decode(rec, &ev); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Get возвращает мероприятие по идентификатору.
func (s *Service) Get(_ context.Context, eventID string) (*models.Event, error) {
	const op = "event.Get"

	rec := s.store.GetByID(demostore.CollectionEvents, eventID)
	if rec == nil {
		return nil, fmt.Errorf("%s: %s: %w", op, eventID, demostore.ErrNotFound)
	}
	var ev models.Event
	if err := demostore.Decode(rec, &ev); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ev, nil
}

// Register создает заявку пользователя на участие со статусом оплаты
// PENDING. Повторная регистрация и переполнение мероприятия отклоняются.
func (s *Service) Register(ctx context.Context, sess models.Session, eventID string) (*models.EventRegistration, error) {
	const op = "event.Register"

	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	existing := s.store.GetByFilter(demostore.CollectionEventRegistrations, func(rec demostore.Record) bool {
		return rec["eventId"] == eventID && rec["userUid"] == sess.UserUID
	})
	if len(existing) > 0 {
		return nil, ErrAlreadyRegistered
	}

	taken := len(s.store.GetByFilter(demostore.CollectionEventRegistrations, func(rec demostore.Record) bool {
		return rec["eventId"] == eventID
	}))
	if ev.Capacity > 0 && taken >= ev.Capacity {
		return nil, ErrCapacityReached
	}

	user, err := s.users.GetUser(ctx, sess.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := s.store.Create(demostore.CollectionEventRegistrations, demostore.Record{
		"eventId":       eventID,
		"userUid":       sess.UserUID,
		"email":         user.Email,
		"paymentStatus": models.PaymentPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var reg models.EventRegistration
	if err := demostore.Decode(rec, &reg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &reg, nil
}

// Registrations возвращает заявки на мероприятие. Доступно только
// организатору-владельцу.
func (s *Service) Registrations(ctx context.Context, sess models.Session, eventID string) ([]models.EventRegistration, error) {
	const op = "event.Registrations"

	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.OrganizerUID != sess.UserUID {
		return nil, ErrNotOwner
	}

	out := []models.EventRegistration{}
	for _, rec := range s.store.GetByFilter(demostore.CollectionEventRegistrations, func(rec demostore.Record) bool {
		return rec["eventId"] == eventID
	}) {
		var reg models.EventRegistration
		if err := demostore.Decode(rec, &reg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, reg)
	}
	return out, nil
}

// Accept подтверждает оплату заявки: статус PENDING переходит в PAID,
// участнику публикуется уведомление. Подтверждать может только
// организатор-владелец мероприятия.
func (s *Service) Accept(ctx context.Context, sess models.Session, registrationID string) (*models.EventRegistration, error) {
	const op = "event.Accept"

	rec := s.store.GetByID(demostore.CollectionEventRegistrations, registrationID)
	if rec == nil {
		return nil, fmt.Errorf("%s: %s: %w", op, registrationID, demostore.ErrNotFound)
	}
	var reg models.EventRegistration
	if err := demostore.Decode(rec, &reg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ev, err := s.Get(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if ev.OrganizerUID != sess.UserUID {
		return nil, ErrNotOwner
	}
	if reg.PaymentStatus != models.PaymentPending {
		return nil, ErrAlreadyPaid
	}

	updated, err := s.store.Update(demostore.CollectionEventRegistrations, registrationID, demostore.Record{
		"paymentStatus": models.PaymentPaid,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.publisher != nil && reg.Email != "" {
		pubErr := s.publisher.Publish(rabbitmq.RoutingKeyRegistration, models.RegistrationNotification{
			Email:      reg.Email,
			EventTitle: ev.Title,
			EventDate:  ev.Date,
		})
		if pubErr != nil {
			s.log.Error("failed to publish registration notification", sl.Err(pubErr))
		}
	}

	var out models.EventRegistration
	if err := demostore.Decode(updated, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// Stats возвращает сводную статистику организатора по его мероприятиям.
// Выручка считается по подтвержденным заявкам.
func (s *Service) Stats(_ context.Context, sess models.Session) (*models.OrganizerStats, error) {
	const op = "event.Stats"

	stats := &models.OrganizerStats{}
	for _, rec := range s.store.GetByFilter(demostore.CollectionEvents, func(rec demostore.Record) bool {
		return rec["organizerUid"] == sess.UserUID
	}) {
		var ev models.Event
		if err := demostore.Decode(rec, &ev); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats.Events++

		for _, rrec := range s.store.GetByFilter(demostore.CollectionEventRegistrations, func(rrec demostore.Record) bool {
			return rrec["eventId"] == ev.ID
		}) {
			stats.Registrations++
			if rrec["paymentStatus"] == models.PaymentPaid {
				stats.PaidRegistrations++
				stats.Revenue += ev.Price
			}
		}
	}
	return stats, nil
}
