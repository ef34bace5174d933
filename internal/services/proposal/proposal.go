// Package proposal содержит бизнес-логику предложений знакомства:
// дневные квоты бесплатного тарифа, создание и ответ на предложения,
// публикацию уведомлений.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matrimony-portal/portal-api/internal/capability"
	"github.com/matrimony-portal/portal-api/internal/lib/rabbitmq"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// ErrDailyLimitReached возвращается, когда бесплатный пользователь
// исчерпал дневную квоту предложений. Запись при этом не создается.
var ErrDailyLimitReached = errors.New("daily proposal limit reached, upgrade to premium")

// ErrProfileNotFound возвращается, когда анкета отправителя или получателя не найдена.
var ErrProfileNotFound = errors.New("profile not found")

// ErrBlocked возвращается при попытке отправить предложение анкете,
// владелец которой заблокировал отправителя.
var ErrBlocked = errors.New("recipient has blocked this profile")

// ErrNotRecipient возвращается при попытке ответить на чужое предложение.
var ErrNotRecipient = errors.New("proposal is addressed to another profile")

// ErrAlreadyAnswered возвращается при повторном ответе на предложение.
var ErrAlreadyAnswered = errors.New("proposal already answered")

// DataStore описывает операции демо-хранилища, необходимые сервису.
type DataStore interface {
	GetByID(collection, id string) demostore.Record
	GetByFilter(collection string, predicate func(demostore.Record) bool) []demostore.Record
	Create(collection string, item demostore.Record) (demostore.Record, error)
	Update(collection, id string, patch demostore.Record) (demostore.Record, error)
}

// QuotaCounter описывает счетчик квот с истечением.
type QuotaCounter interface {
	IncrWithTTL(key string, ttl time.Duration) (int64, error)
	GetCounter(key string) (int64, error)
}

// Publisher описывает публикацию уведомлений в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service отвечает за жизненный цикл предложений знакомства.
type Service struct {
	store     DataStore
	quota     QuotaCounter
	resolver  *capability.Resolver
	publisher Publisher
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(store DataStore, quota QuotaCounter, resolver *capability.Resolver, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		quota:     quota,
		resolver:  resolver,
		publisher: publisher,
		log:       log,
	}
}

// quotaKey собирает ключ дневной квоты вида quota:proposal:<uid>:<дата>.
func quotaKey(userUID string) string {
	return fmt.Sprintf("quota:proposal:%s:%s", userUID, time.Now().UTC().Format("2006-01-02"))
}

// untilMidnightUTC возвращает время до конца текущих суток UTC.
func untilMidnightUTC() time.Duration {
	now := time.Now().UTC()
	midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	return midnight.Sub(now)
}

// Send создает предложение знакомства от имени пользователя сессии.
// Квота проверяется до любой записи: исчерпанная квота возвращает
// ErrDailyLimitReached, и хранилище не изменяется.
func (s *Service) Send(ctx context.Context, sess models.Session, req models.DummySendProposal) (*models.Proposal, error) {
	const op = "proposal.Send"

	caps := s.resolver.Resolve(sess)
	limit := caps.ProposalDailyLimit
	if !capability.IsUnlimited(limit) {
		used, err := s.quota.GetCounter(quotaKey(sess.UserUID))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if used >= int64(limit) {
			return nil, ErrDailyLimitReached
		}
	}

	fromProfile, err := s.profileOf(sess.UserUID)
	if err != nil {
		return nil, err
	}
	toRec := s.store.GetByID(demostore.CollectionProfiles, req.ToProfileID)
	if toRec == nil {
		return nil, ErrProfileNotFound
	}
	var toProfile models.Profile
	if err := demostore.Decode(toRec, &toProfile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blocked := s.store.GetByFilter(demostore.CollectionBlockedUsers, func(rec demostore.Record) bool {
		return rec["userUid"] == toProfile.UserUID && rec["blockedProfileId"] == fromProfile.ID
	})
	if len(blocked) > 0 {
		return nil, ErrBlocked
	}

	rec, err := s.store.Create(demostore.CollectionProposals, demostore.Record{
		"fromProfileId": fromProfile.ID,
		"toProfileId":   toProfile.ID,
		"message":       req.Message,
		"status":        models.ProposalPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !capability.IsUnlimited(limit) {
		if _, err := s.quota.IncrWithTTL(quotaKey(sess.UserUID), untilMidnightUTC()); err != nil {
			s.log.Warn("failed to increment proposal quota", sl.Err(err))
		}
	}
	s.recordActivity(sess.UserUID, "proposal_sent", rec["id"])
	s.notifyRecipient(&toProfile, fromProfile, req.Message)

	var created models.Proposal
	if err := demostore.Decode(rec, &created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// QuotaLeft возвращает остаток дневной квоты предложений,
// capability.Unlimited для premium.
func (s *Service) QuotaLeft(_ context.Context, sess models.Session) (int, error) {
	caps := s.resolver.Resolve(sess)
	if capability.IsUnlimited(caps.ProposalDailyLimit) {
		return capability.Unlimited, nil
	}
	used, err := s.quota.GetCounter(quotaKey(sess.UserUID))
	if err != nil {
		return 0, err
	}
	left := caps.ProposalDailyLimit - int(used)
	if left < 0 {
		left = 0
	}
	return left, nil
}

// Inbox содержит предложения пользователя в обе стороны.
type Inbox struct {
	Sent     []models.Proposal `json:"sent"`
	Received []models.Proposal `json:"received"`
}

// List возвращает отправленные и полученные предложения пользователя.
func (s *Service) List(_ context.Context, sess models.Session) (*Inbox, error) {
	const op = "proposal.List"

	profile, err := s.profileOf(sess.UserUID)
	if err != nil {
		return nil, err
	}

	inbox := &Inbox{Sent: []models.Proposal{}, Received: []models.Proposal{}}
	for _, rec := range s.store.GetByFilter(demostore.CollectionProposals, func(rec demostore.Record) bool {
		return rec["fromProfileId"] == profile.ID || rec["toProfileId"] == profile.ID
	}) {
		var p models.Proposal
		if err := demostore.Decode(rec, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if p.FromProfileID == profile.ID {
			inbox.Sent = append(inbox.Sent, p)
		} else {
			inbox.Received = append(inbox.Received, p)
		}
	}
	return inbox, nil
}

// Respond принимает или отклоняет предложение. Отвечать может только
// владелец анкеты-получателя, и только на предложение в статусе PENDING.
func (s *Service) Respond(_ context.Context, sess models.Session, proposalID string, accept bool) (*models.Proposal, error) {
	const op = "proposal.Respond"

	rec := s.store.GetByID(demostore.CollectionProposals, proposalID)
	if rec == nil {
		return nil, fmt.Errorf("%s: %s: %w", op, proposalID, demostore.ErrNotFound)
	}
	var p models.Proposal
	if err := demostore.Decode(rec, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.profileOf(sess.UserUID)
	if err != nil {
		return nil, err
	}
	if p.ToProfileID != profile.ID {
		return nil, ErrNotRecipient
	}
	if p.Status != models.ProposalPending {
		return nil, ErrAlreadyAnswered
	}

	status := models.ProposalDeclined
	if accept {
		status = models.ProposalAccepted
	}
	updated, err := s.store.Update(demostore.CollectionProposals, proposalID, demostore.Record{
		"status": status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out models.Proposal
	if err := demostore.Decode(updated, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

func (s *Service) profileOf(userUID string) (*models.Profile, error) {
	recs := s.store.GetByFilter(demostore.CollectionProfiles, func(rec demostore.Record) bool {
		return rec["userUid"] == userUID
	})
	if len(recs) == 0 {
		return nil, ErrProfileNotFound
	}
	var profile models.Profile
	if err := demostore.Decode(recs[0], &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// recordActivity пишет запись в журнал действий. Ошибки не прерывают
// основную операцию.
func (s *Service) recordActivity(userUID, action string, subject any) {
	_, err := s.store.Create(demostore.CollectionUserActivity, demostore.Record{
		"userUid": userUID,
		"action":  action,
		"subject": subject,
	})
	if err != nil {
		s.log.Warn("failed to record activity", slog.String("action", action), sl.Err(err))
	}
}

// notifyRecipient публикует уведомление получателю. Недоставленное
// уведомление не откатывает созданное предложение.
func (s *Service) notifyRecipient(to, from *models.Profile, message string) {
	if s.publisher == nil {
		return
	}
	email := s.emailOf(to.UserUID)
	if email == "" {
		s.log.Warn("recipient email unknown, skipping notification",
			slog.String("profile_id", to.ID))
		return
	}
	err := s.publisher.Publish(rabbitmq.RoutingKeyProposal, models.ProposalNotification{
		Email:        email,
		ToFullName:   to.FullName,
		FromFullName: from.FullName,
		Message:      message,
	})
	if err != nil {
		s.log.Error("failed to publish proposal notification", sl.Err(err))
	}
}

func (s *Service) emailOf(userUID string) string {
	rec := s.store.GetByID(demostore.CollectionUsers, userUID)
	if rec == nil {
		return ""
	}
	email, _ := rec["email"].(string)
	return email
}
