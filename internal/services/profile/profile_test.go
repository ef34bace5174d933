package profile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrimony-portal/portal-api/internal/capability"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

const seedContent = `{
  "users": [
    {"id": "usr1", "username": "anna", "email": "anna@example.com", "role": "user",
     "subscriptionStatus": "active", "subscriptionTier": "free"},
    {"id": "usr2", "username": "boris", "email": "boris@example.com", "role": "user",
     "subscriptionStatus": "active", "subscriptionTier": "premium"},
    {"id": "usr3", "username": "vera", "email": "vera@example.com", "role": "user",
     "subscriptionStatus": "active", "subscriptionTier": "free"}
  ],
  "profiles": [
    {"id": "prf1", "userUid": "usr1", "fullName": "Anna K", "gender": "female", "age": 28,
     "city": "Mumbai", "religion": "hindu", "education": "masters", "income": "high"},
    {"id": "prf2", "userUid": "usr2", "fullName": "Boris M", "gender": "male", "age": 32,
     "city": "Delhi", "religion": "hindu", "education": "bachelors", "income": "medium"},
    {"id": "prf3", "userUid": "usr3", "fullName": "Vera P", "gender": "female", "age": 25,
     "city": "Mumbai", "religion": "christian", "education": "masters", "income": "medium"}
  ],
  "blockedUsers": [
    {"id": "blk1", "userUid": "usr3", "blockedProfileId": "prf1"}
  ]
}`

type fakeQuota struct {
	counters map[string]int64
}

func newFakeQuota() *fakeQuota {
	return &fakeQuota{counters: make(map[string]int64)}
}

func (q *fakeQuota) IncrWithTTL(key string, _ time.Duration) (int64, error) {
	q.counters[key]++
	return q.counters[key], nil
}

func (q *fakeQuota) GetCounter(key string) (int64, error) {
	return q.counters[key], nil
}

func newTestService(t *testing.T) (*Service, *demostore.Store, *fakeQuota) {
	t.Helper()

	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedContent), 0o644))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := demostore.New(seedPath, filepath.Join(dir, "state.json"), log)
	require.NoError(t, err)
	require.NoError(t, store.Open())

	quota := newFakeQuota()
	resolver := capability.NewResolver(capability.Limits{
		FreeDailyProposals:    3,
		FreeDailyProfileViews: 2,
	})
	users := demostore.NewUserAdapter(store)
	return NewService(store, quota, resolver, users, log), store, quota
}

func freeSession() models.Session {
	return models.Session{
		UserUID:            "usr1",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionTier:   models.TierFree,
	}
}

func premiumSession() models.Session {
	return models.Session{
		UserUID:            "usr2",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionTier:   models.TierPremium,
	}
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()

	t.Run("basic filters for free user", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		profiles, err := svc.Browse(ctx, premiumSession(), models.ProfileFilter{City: "Mumbai"})
		require.NoError(t, err)
		require.Len(t, profiles, 2)
	})

	t.Run("excludes own profile", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		profiles, err := svc.Browse(ctx, freeSession(), models.ProfileFilter{})
		require.NoError(t, err)
		for _, p := range profiles {
			assert.NotEqual(t, "prf1", p.ID)
		}
	})

	t.Run("advanced filters rejected for free tier", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Browse(ctx, freeSession(), models.ProfileFilter{Education: "masters"})
		assert.ErrorIs(t, err, ErrPremiumRequired)
	})

	t.Run("advanced filters allowed for premium", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		profiles, err := svc.Browse(ctx, premiumSession(), models.ProfileFilter{Education: "masters"})
		require.NoError(t, err)
		require.Len(t, profiles, 2)
	})

	t.Run("age range filter", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		profiles, err := svc.Browse(ctx, premiumSession(), models.ProfileFilter{AgeMin: 26, AgeMax: 30})
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "prf1", profiles[0].ID)
	})

	t.Run("blocked profiles hidden both ways", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		// usr3 заблокировал prf1, значит usr1 не видит анкеты usr3
		profiles, err := svc.Browse(ctx, freeSession(), models.ProfileFilter{})
		require.NoError(t, err)
		for _, p := range profiles {
			assert.NotEqual(t, "prf3", p.ID)
		}

		// и usr3 не видит prf1
		veraSess := models.Session{
			UserUID:            "usr3",
			Role:               models.RoleUser,
			SubscriptionStatus: models.SubscriptionActive,
			SubscriptionTier:   models.TierFree,
		}
		profiles, err = svc.Browse(ctx, veraSess, models.ProfileFilter{})
		require.NoError(t, err)
		for _, p := range profiles {
			assert.NotEqual(t, "prf1", p.ID)
		}
	})
}

func TestView(t *testing.T) {
	ctx := context.Background()

	t.Run("free tier blocked after daily limit", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.View(ctx, freeSession(), "prf2")
		require.NoError(t, err)
		_, err = svc.View(ctx, freeSession(), "prf3")
		require.NoError(t, err)

		_, err = svc.View(ctx, freeSession(), "prf2")
		assert.ErrorIs(t, err, ErrViewLimitReached)
	})

	t.Run("own profile does not consume quota", func(t *testing.T) {
		svc, _, quota := newTestService(t)

		_, err := svc.View(ctx, freeSession(), "prf1")
		require.NoError(t, err)
		assert.Empty(t, quota.counters)
	})

	t.Run("view recorded in journal", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		_, err := svc.View(ctx, freeSession(), "prf2")
		require.NoError(t, err)

		views := store.GetByFilter(demostore.CollectionProfileViews, func(rec demostore.Record) bool {
			return rec["viewerUid"] == "usr1" && rec["profileId"] == "prf2"
		})
		assert.Len(t, views, 1)
	})

	t.Run("unknown profile", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.View(ctx, freeSession(), "ghost")
		assert.ErrorIs(t, err, demostore.ErrNotFound)
	})
}

func TestUpdateOwn(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only provided fields", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		p, err := svc.UpdateOwn(ctx, freeSession(), models.DummyProfileUpdate{City: "Pune"})
		require.NoError(t, err)
		assert.Equal(t, "Pune", p.City)
		assert.Equal(t, "Anna K", p.FullName)
		assert.Equal(t, 28, p.Age)
	})

	t.Run("creates missing profile and links it", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		sess := models.Session{UserUID: "usr-new", Role: models.RoleUser}
		users := demostore.NewUserAdapter(store)
		uid, err := users.RegisterUser(ctx, models.User{
			Email:    "new@example.com",
			Username: "newcomer",
			Role:     models.RoleUser,
		})
		require.NoError(t, err)
		sess.UserUID = uid

		p, err := svc.UpdateOwn(ctx, sess, models.DummyProfileUpdate{FullName: "New Person", Age: 30})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)

		linked, err := users.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, p.ID, linked.ProfileID)
	})
}

func TestShortlist(t *testing.T) {
	ctx := context.Background()

	t.Run("add list remove", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		require.NoError(t, svc.ShortlistAdd(ctx, freeSession(), "prf2"))
		// повторное добавление идемпотентно
		require.NoError(t, svc.ShortlistAdd(ctx, freeSession(), "prf2"))

		profiles, err := svc.ShortlistList(ctx, freeSession())
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "prf2", profiles[0].ID)

		require.NoError(t, svc.ShortlistRemove(ctx, freeSession(), "prf2"))

		profiles, err = svc.ShortlistList(ctx, freeSession())
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("remove missing entry", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.ShortlistRemove(ctx, freeSession(), "prf2")
		assert.ErrorIs(t, err, demostore.ErrNotFound)
	})

	t.Run("add unknown profile", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.ShortlistAdd(ctx, freeSession(), "ghost")
		assert.ErrorIs(t, err, demostore.ErrNotFound)
	})
}

func TestBlock(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	require.NoError(t, svc.Block(ctx, freeSession(), "prf2"))
	// повторная блокировка идемпотентна
	require.NoError(t, svc.Block(ctx, freeSession(), "prf2"))

	blocked := store.GetByFilter(demostore.CollectionBlockedUsers, func(rec demostore.Record) bool {
		return rec["userUid"] == "usr1" && rec["blockedProfileId"] == "prf2"
	})
	assert.Len(t, blocked, 1)

	profiles, err := svc.Browse(ctx, freeSession(), models.ProfileFilter{})
	require.NoError(t, err)
	for _, p := range profiles {
		assert.NotEqual(t, "prf2", p.ID)
	}
}
