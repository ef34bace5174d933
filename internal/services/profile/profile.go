// Package profile содержит бизнес-логику каталога анкет: поиск с
// фильтрами, просмотр с дневной квотой, избранное и редактирование
// собственной анкеты.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matrimony-portal/portal-api/internal/capability"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// ErrPremiumRequired возвращается при использовании расширенных фильтров
// без соответствующей возможности.
var ErrPremiumRequired = errors.New("advanced filters require premium subscription")

// ErrViewLimitReached возвращается, когда бесплатный пользователь
// исчерпал дневную квоту просмотров анкет.
var ErrViewLimitReached = errors.New("daily profile view limit reached, upgrade to premium")

// DataStore описывает операции демо-хранилища, необходимые сервису.
type DataStore interface {
	GetByID(collection, id string) demostore.Record
	GetByFilter(collection string, predicate func(demostore.Record) bool) []demostore.Record
	Create(collection string, item demostore.Record) (demostore.Record, error)
	Update(collection, id string, patch demostore.Record) (demostore.Record, error)
	Delete(collection, id string) (demostore.Record, error)
}

// QuotaCounter описывает счетчик квот с истечением.
type QuotaCounter interface {
	IncrWithTTL(key string, ttl time.Duration) (int64, error)
	GetCounter(key string) (int64, error)
}

// Users описывает привязку анкеты к учетной записи.
type Users interface {
	SetUserProfileID(ctx context.Context, userUID, profileID string) error
}

// Service отвечает за каталог анкет.
type Service struct {
	store    DataStore
	quota    QuotaCounter
	resolver *capability.Resolver
	users    Users
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(store DataStore, quota QuotaCounter, resolver *capability.Resolver, users Users, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		quota:    quota,
		resolver: resolver,
		users:    users,
		log:      log,
	}
}

func viewQuotaKey(userUID string) string {
	return fmt.Sprintf("quota:profileview:%s:%s", userUID, time.Now().UTC().Format("2006-01-02"))
}

func untilMidnightUTC() time.Duration {
	now := time.Now().UTC()
	midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	return midnight.Sub(now)
}

// Browse возвращает анкеты по фильтру, исключая собственную анкету
// пользователя и анкеты из черных списков в обе стороны. Расширенные
// поля фильтра доступны только при CanUseAdvancedFilters.
func (s *Service) Browse(_ context.Context, sess models.Session, filter models.ProfileFilter) ([]models.Profile, error) {
	const op = "profile.Browse"

	caps := s.resolver.Resolve(sess)
	advanced := filter.Education != "" || filter.Income != ""
	if advanced && !caps.CanUseAdvancedFilters {
		return nil, ErrPremiumRequired
	}

	hidden := s.hiddenProfileIDs(sess.UserUID)

	out := []models.Profile{}
	for _, rec := range s.store.GetByFilter(demostore.CollectionProfiles, func(rec demostore.Record) bool {
		return rec["userUid"] != sess.UserUID
	}) {
		var p models.Profile
		if err := demostore.Decode(rec, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if hidden[p.ID] {
			continue
		}
		if !matches(p, filter) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matches(p models.Profile, f models.ProfileFilter) bool {
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.City != "" && p.City != f.City {
		return false
	}
	if f.Religion != "" && p.Religion != f.Religion {
		return false
	}
	if f.AgeMin > 0 && p.Age < f.AgeMin {
		return false
	}
	if f.AgeMax > 0 && p.Age > f.AgeMax {
		return false
	}
	if f.Education != "" && p.Education != f.Education {
		return false
	}
	if f.Income != "" && p.Income != f.Income {
		return false
	}
	return true
}

// hiddenProfileIDs собирает анкеты, скрытые от пользователя: те, что он
// заблокировал сам, и те, чьи владельцы заблокировали его анкету.
func (s *Service) hiddenProfileIDs(userUID string) map[string]bool {
	hidden := make(map[string]bool)

	for _, rec := range s.store.GetByFilter(demostore.CollectionBlockedUsers, func(rec demostore.Record) bool {
		return rec["userUid"] == userUID
	}) {
		if id, ok := rec["blockedProfileId"].(string); ok {
			hidden[id] = true
		}
	}

	own := s.ownProfileID(userUID)
	if own == "" {
		return hidden
	}
	for _, rec := range s.store.GetByFilter(demostore.CollectionBlockedUsers, func(rec demostore.Record) bool {
		return rec["blockedProfileId"] == own
	}) {
		blockerUID, ok := rec["userUid"].(string)
		if !ok {
			continue
		}
		for _, prec := range s.store.GetByFilter(demostore.CollectionProfiles, func(prec demostore.Record) bool {
			return prec["userUid"] == blockerUID
		}) {
			if id, ok := prec["id"].(string); ok {
				hidden[id] = true
			}
		}
	}
	return hidden
}

func (s *Service) ownProfileID(userUID string) string {
	recs := s.store.GetByFilter(demostore.CollectionProfiles, func(rec demostore.Record) bool {
		return rec["userUid"] == userUID
	})
	if len(recs) == 0 {
		return ""
	}
	id, _ := recs[0]["id"].(string)
	return id
}

// View возвращает анкету по идентификатору. Просмотр чужой анкеты
// расходует дневную квоту бесплатного тарифа и фиксируется в журнале
// просмотров; исчерпанная квота возвращает ErrViewLimitReached до
// выдачи анкеты.
func (s *Service) View(_ context.Context, sess models.Session, profileID string) (*models.Profile, error) {
	const op = "profile.View"

	rec := s.store.GetByID(demostore.CollectionProfiles, profileID)
	if rec == nil {
		return nil, fmt.Errorf("%s: %s: %w", op, profileID, demostore.ErrNotFound)
	}
	var p models.Profile
	if err := demostore.Decode(rec, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.UserUID == sess.UserUID {
		return &p, nil
	}

	caps := s.resolver.Resolve(sess)
	limit := caps.ProfileViewDailyLimit
	if !capability.IsUnlimited(limit) {
		used, err := s.quota.GetCounter(viewQuotaKey(sess.UserUID))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if used >= int64(limit) {
			return nil, ErrViewLimitReached
		}
		if _, err := s.quota.IncrWithTTL(viewQuotaKey(sess.UserUID), untilMidnightUTC()); err != nil {
			s.log.Warn("failed to increment view quota", sl.Err(err))
		}
	}

	if _, err := s.store.Create(demostore.CollectionProfileViews, demostore.Record{
		"viewerUid": sess.UserUID,
		"profileId": profileID,
	}); err != nil {
		s.log.Warn("failed to record profile view", sl.Err(err))
	}
	return &p, nil
}

// UpdateOwn изменяет анкету пользователя. Передаются только заполненные
// поля; отсутствующая анкета создается и привязывается к учетной записи.
func (s *Service) UpdateOwn(ctx context.Context, sess models.Session, req models.DummyProfileUpdate) (*models.Profile, error) {
	const op = "profile.UpdateOwn"

	patch := demostore.Record{}
	if req.FullName != "" {
		patch["fullName"] = req.FullName
	}
	if req.Age != 0 {
		patch["age"] = req.Age
	}
	if req.City != "" {
		patch["city"] = req.City
	}
	if req.Religion != "" {
		patch["religion"] = req.Religion
	}
	if req.Occupation != "" {
		patch["occupation"] = req.Occupation
	}
	if req.Education != "" {
		patch["education"] = req.Education
	}
	if req.Income != "" {
		patch["income"] = req.Income
	}
	if req.About != "" {
		patch["about"] = req.About
	}
	if req.PhotoURL != "" {
		patch["photoUrl"] = req.PhotoURL
	}

	var (
		rec demostore.Record
		err error
	)
	if ownID := s.ownProfileID(sess.UserUID); ownID != "" {
		rec, err = s.store.Update(demostore.CollectionProfiles, ownID, patch)
	} else {
		patch["userUid"] = sess.UserUID
		rec, err = s.store.Create(demostore.CollectionProfiles, patch)
		if err == nil {
			id, _ := rec["id"].(string)
			if linkErr := s.users.SetUserProfileID(ctx, sess.UserUID, id); linkErr != nil {
				s.log.Warn("failed to link profile to user", sl.Err(linkErr))
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Profile
	if err := demostore.Decode(rec, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ShortlistAdd добавляет анкету в избранное пользователя. Повторное
// добавление не создает дубликат.
func (s *Service) ShortlistAdd(_ context.Context, sess models.Session, profileID string) error {
	const op = "profile.ShortlistAdd"

	if s.store.GetByID(demostore.CollectionProfiles, profileID) == nil {
		return fmt.Errorf("%s: %s: %w", op, profileID, demostore.ErrNotFound)
	}
	existing := s.store.GetByFilter(demostore.CollectionShortlist, func(rec demostore.Record) bool {
		return rec["userUid"] == sess.UserUID && rec["profileId"] == profileID
	})
	if len(existing) > 0 {
		return nil
	}
	if _, err := s.store.Create(demostore.CollectionShortlist, demostore.Record{
		"userUid":   sess.UserUID,
		"profileId": profileID,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ShortlistRemove убирает анкету из избранного.
func (s *Service) ShortlistRemove(_ context.Context, sess models.Session, profileID string) error {
	const op = "profile.ShortlistRemove"

	entries := s.store.GetByFilter(demostore.CollectionShortlist, func(rec demostore.Record) bool {
		return rec["userUid"] == sess.UserUID && rec["profileId"] == profileID
	})
	if len(entries) == 0 {
		return fmt.Errorf("%s: %s: %w", op, profileID, demostore.ErrNotFound)
	}
	for _, entry := range entries {
		id, _ := entry["id"].(string)
		if _, err := s.store.Delete(demostore.CollectionShortlist, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ShortlistList возвращает анкеты из избранного пользователя.
func (s *Service) ShortlistList(_ context.Context, sess models.Session) ([]models.Profile, error) {
	const op = "profile.ShortlistList"

	out := []models.Profile{}
	for _, entry := range s.store.GetByFilter(demostore.CollectionShortlist, func(rec demostore.Record) bool {
		return rec["userUid"] == sess.UserUID
	}) {
		profileID, _ := entry["profileId"].(string)
		rec := s.store.GetByID(demostore.CollectionProfiles, profileID)
		if rec == nil {
			continue
		}
		var p models.Profile
		if err := demostore.Decode(rec, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Block добавляет анкету в черный список пользователя.
func (s *Service) Block(_ context.Context, sess models.Session, profileID string) error {
	const op = "profile.Block"

	if s.store.GetByID(demostore.CollectionProfiles, profileID) == nil {
		return fmt.Errorf("%s: %s: %w", op, profileID, demostore.ErrNotFound)
	}
	existing := s.store.GetByFilter(demostore.CollectionBlockedUsers, func(rec demostore.Record) bool {
		return rec["userUid"] == sess.UserUID && rec["blockedProfileId"] == profileID
	})
	if len(existing) > 0 {
		return nil
	}
	if _, err := s.store.Create(demostore.CollectionBlockedUsers, demostore.Record{
		"userUid":          sess.UserUID,
		"blockedProfileId": profileID,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
