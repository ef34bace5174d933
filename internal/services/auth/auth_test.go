package auth

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrimony-portal/portal-api/internal/lib/jwt"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/session"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

type fakeCache struct {
	values map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string, result any) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *fakeCache) Set(key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *fakeCache) Invalidate(key string) error {
	delete(c.values, key)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeCache) {
	t.Helper()

	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(`{}`), 0o644))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := demostore.New(seedPath, filepath.Join(dir, "state.json"), log)
	require.NoError(t, err)
	require.NoError(t, store.Open())

	cache := newFakeCache()
	sessions := session.NewStore(cache, time.Hour, 24*time.Hour)
	maker := jwt.NewMaker("test-secret", time.Hour)

	return NewService(demostore.NewUserAdapter(store), maker, sessions, log), cache
}

func TestRegisterDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	uid, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	sess, err := svc.Session(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, sess.Role)
	assert.Equal(t, models.SubscriptionActive, sess.SubscriptionStatus)
	assert.Equal(t, models.TierFree, sess.SubscriptionTier)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials create session", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
		require.NoError(t, err)

		token, refresh, sess, err := svc.Login(ctx, "anna", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "anna", sess.Username)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "anna", claims.Username)
		assert.Equal(t, models.RoleUser, claims.Role)
		assert.Equal(t, sess.UserUID, claims.UserUID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
		require.NoError(t, err)

		_, _, _, err = svc.Login(ctx, "anna", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, _, err := svc.Login(ctx, "ghost", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh rotates tokens", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
		require.NoError(t, err)

		_, refresh, _, err := svc.Login(ctx, "anna", "password123")
		require.NoError(t, err)

		token2, refresh2, err := svc.Refresh(ctx, "anna", refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, token2)
		assert.NotEqual(t, refresh, refresh2)

		// старый refresh-токен больше не действует
		_, _, err = svc.Refresh(ctx, "anna", refresh)
		assert.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
		require.NoError(t, err)

		_, _, err = svc.Refresh(ctx, "anna", "bogus")
		assert.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestLogoutClearsSession(t *testing.T) {
	svc, cache := newTestService(t)
	ctx := context.Background()

	uid, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "anna", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, cache.values)

	require.NoError(t, svc.Logout(ctx, uid))
	assert.Empty(t, cache.values)
}

func TestSessionRehydration(t *testing.T) {
	svc, cache := newTestService(t)
	ctx := context.Background()

	uid, err := svc.Register(ctx, "anna@example.com", "anna", "password123")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "anna", "password123")
	require.NoError(t, err)

	// сессия пропала из кеша, но восстанавливается из хранилища пользователей
	cache.values = map[string][]byte{}
	sess, err := svc.Session(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "anna", sess.Username)
	assert.NotEmpty(t, cache.values)
}
