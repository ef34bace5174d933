package demostore

import (
	"context"
	"fmt"

	"github.com/matrimony-portal/portal-api/internal/models"
)

// UserAdapter реализует репозиторий пользователей поверх демо-хранилища.
// Используется в демо-режиме вместо PostgreSQL.
type UserAdapter struct {
	store *Store
}

// NewUserAdapter создает адаптер пользователей.
func NewUserAdapter(store *Store) *UserAdapter {
	return &UserAdapter{store: store}
}

func userFromRecord(rec Record) *models.User {
	u := &models.User{}
	u.UUID, _ = rec["id"].(string)
	u.Email, _ = rec["email"].(string)
	u.Username, _ = rec["username"].(string)
	u.PasswordHash, _ = rec["passwordHash"].(string)
	u.Role, _ = rec["role"].(string)
	u.SubscriptionStatus, _ = rec["subscriptionStatus"].(string)
	u.SubscriptionTier, _ = rec["subscriptionTier"].(string)
	u.ProfileID, _ = rec["profileId"].(string)
	return u
}

// RegisterUser сохраняет нового пользователя и возвращает его идентификатор.
func (a *UserAdapter) RegisterUser(_ context.Context, user models.User) (string, error) {
	const op = "demostore.RegisterUser"

	existing := a.store.GetByFilter(CollectionUsers, func(rec Record) bool {
		return rec["username"] == user.Username
	})
	if len(existing) > 0 {
		return "", fmt.Errorf("%s: username already taken", op)
	}

	rec, err := a.store.Create(CollectionUsers, Record{
		"email":              user.Email,
		"username":           user.Username,
		"passwordHash":       user.PasswordHash,
		"role":               user.Role,
		"subscriptionStatus": user.SubscriptionStatus,
		"subscriptionTier":   user.SubscriptionTier,
		"profileId":          user.ProfileID,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	id, _ := rec["id"].(string)
	return id, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (a *UserAdapter) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	const op = "demostore.GetUserByUsername"

	found := a.store.GetByFilter(CollectionUsers, func(rec Record) bool {
		return rec["username"] == username
	})
	if len(found) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, username, ErrNotFound)
	}
	return userFromRecord(found[0]), nil
}

// GetUser возвращает пользователя по его UID.
func (a *UserAdapter) GetUser(_ context.Context, userUID string) (*models.User, error) {
	const op = "demostore.GetUser"

	rec := a.store.GetByID(CollectionUsers, userUID)
	if rec == nil {
		return nil, fmt.Errorf("%s: %s: %w", op, userUID, ErrNotFound)
	}
	return userFromRecord(rec), nil
}

// SetUserProfileID привязывает анкету к пользователю.
func (a *UserAdapter) SetUserProfileID(_ context.Context, userUID, profileID string) error {
	const op = "demostore.SetUserProfileID"

	if _, err := a.store.Update(CollectionUsers, userUID, Record{"profileId": profileID}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает всех пользователей, без хэшей паролей.
func (a *UserAdapter) ListUsers(_ context.Context) ([]*models.User, error) {
	records := a.store.GetAll(CollectionUsers)
	users := make([]*models.User, 0, len(records))
	for _, rec := range records {
		u := userFromRecord(rec)
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, nil
}
