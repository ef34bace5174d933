package demostore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrimony-portal/portal-api/internal/models"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

const seedContent = `{
  "profiles": [
    {"id": "prf1", "userUid": "usr1", "fullName": "Anna", "age": 27, "city": "Mumbai"},
    {"id": "prf2", "userUid": "usr2", "fullName": "Ravi", "age": 31, "city": "Delhi"}
  ],
  "events": [
    {"id": "evt1", "organizerUid": "usr9", "title": "Meetup", "date": "2026-10-01"}
  ]
}`

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedContent), 0o644))

	store, err := New(seedPath, filepath.Join(dir, "state.json"), makeLogger())
	require.NoError(t, err)
	require.NoError(t, store.Open())
	return store
}

func TestOpen_SeedLoadedAndUnknownCollectionsEmpty(t *testing.T) {
	store := newTestStore(t)

	assert.Len(t, store.GetAll(CollectionProfiles), 2)
	assert.Len(t, store.GetAll(CollectionEvents), 1)
	// коллекции без данных в снапшоте существуют и пусты
	assert.Empty(t, store.GetAll(CollectionProposals))
	assert.Empty(t, store.GetAll(CollectionShortlist))
	// чтение совсем неизвестной коллекции не ошибка
	assert.Empty(t, store.GetAll("nonexistent"))
	assert.Nil(t, store.GetByID("nonexistent", "x"))
}

func TestOpen_MissingSources(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "no-seed.json"), filepath.Join(dir, "no-state.json"), makeLogger())
	require.NoError(t, err)
	require.NoError(t, store.Open())

	for _, name := range KnownCollections() {
		assert.Empty(t, store.GetAll(name))
	}
}

func TestOpen_StateTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.json")
	statePath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedContent), 0o644))

	first, err := New(seedPath, statePath, makeLogger())
	require.NoError(t, err)
	require.NoError(t, first.Open())

	_, err = first.Create(CollectionProposals, Record{
		"fromProfileId": "prf1",
		"toProfileId":   "prf2",
		"status":        models.ProposalPending,
	})
	require.NoError(t, err)

	// повторное открытие того же стора — идемпотентно
	require.NoError(t, first.Open())
	assert.Len(t, first.GetAll(CollectionProposals), 1)

	// новый стор читает файл состояния, а не исходный снапшот
	second, err := New(seedPath, statePath, makeLogger())
	require.NoError(t, err)
	require.NoError(t, second.Open())
	assert.Len(t, second.GetAll(CollectionProposals), 1)
}

func TestCreate_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(CollectionProposals, Record{
		"fromProfileId": "prf1",
		"toProfileId":   "prf2",
		"message":       "hello",
		"status":        models.ProposalPending,
	})
	require.NoError(t, err)

	id, ok := created["id"].(string)
	require.True(t, ok)
	assert.Contains(t, id, "prp")
	assert.NotEmpty(t, created["createdAt"])
	assert.NotEmpty(t, created["updatedAt"])

	got := store.GetByID(CollectionProposals, id)
	require.NotNil(t, got)
	assert.Equal(t, "hello", got["message"])
	assert.Equal(t, models.ProposalPending, got["status"])
}

func TestCreate_SchemaViolation(t *testing.T) {
	store := newTestStore(t)

	// нет обязательного toProfileId
	_, err := store.Create(CollectionProposals, Record{
		"fromProfileId": "prf1",
		"status":        models.ProposalPending,
	})
	assert.Error(t, err)
	assert.Empty(t, store.GetAll(CollectionProposals))
}

func TestCreate_UnknownCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create("nonexistent", Record{"id": "x"})
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestUpdate_MergeAndBump(t *testing.T) {
	store := newTestStore(t)

	updated, err := store.Update(CollectionProfiles, "prf1", Record{"city": "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "Pune", updated["city"])
	// неизмененные поля сохраняются
	assert.Equal(t, "Anna", updated["fullName"])
	assert.NotEmpty(t, updated["updatedAt"])

	got := store.GetByID(CollectionProfiles, "prf1")
	assert.Equal(t, "Pune", got["city"])
}

func TestUpdate_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(CollectionProfiles, "missing", Record{"city": "Pune"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, store.GetAll(CollectionProfiles), 2)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	removed, err := store.Delete(CollectionProfiles, "prf2")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", removed["fullName"])
	assert.Len(t, store.GetAll(CollectionProfiles), 1)

	_, err = store.Delete(CollectionProfiles, "prf2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, store.GetAll(CollectionProfiles), 1)
}

func TestGetByFilter(t *testing.T) {
	store := newTestStore(t)

	found := store.GetByFilter(CollectionProfiles, func(rec Record) bool {
		return rec["city"] == "Delhi"
	})
	require.Len(t, found, 1)
	assert.Equal(t, "Ravi", found[0]["fullName"])

	none := store.GetByFilter(CollectionProfiles, func(rec Record) bool {
		return rec["city"] == "Chennai"
	})
	assert.Empty(t, none)
}

func TestReset_DiscardsWrites(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(CollectionProposals, Record{
		"fromProfileId": "prf1",
		"toProfileId":   "prf2",
		"status":        models.ProposalPending,
	})
	require.NoError(t, err)
	require.Len(t, store.GetAll(CollectionProposals), 1)

	require.NoError(t, store.Reset())

	assert.Empty(t, store.GetAll(CollectionProposals))
	assert.Len(t, store.GetAll(CollectionProfiles), 2)
}

func TestUserAdapter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	users := NewUserAdapter(store)

	uid, err := users.RegisterUser(ctx, models.User{
		Email:              "anna@example.com",
		Username:           "anna",
		PasswordHash:       "hash",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionTier:   models.TierFree,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	byName, err := users.GetUserByUsername(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, uid, byName.UUID)
	assert.Equal(t, models.TierFree, byName.SubscriptionTier)

	byUID, err := users.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", byUID.Email)

	// повторная регистрация того же username запрещена
	_, err = users.RegisterUser(ctx, models.User{
		Email:    "other@example.com",
		Username: "anna",
		Role:     models.RoleUser,
	})
	assert.Error(t, err)

	_, err = users.GetUserByUsername(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, users.SetUserProfileID(ctx, uid, "prf1"))
	byUID, err = users.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "prf1", byUID.ProfileID)

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PasswordHash)
}
