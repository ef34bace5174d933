// Package session реализует хранилище сессий поверх redis.
//
// Сессия создается при входе, переживает перезапуски клиента и удаляется
// при выходе. Хранилище — единственный владелец сессий: остальные
// компоненты получают их только на чтение.
package session

import (
	"fmt"
	"time"

	"github.com/matrimony-portal/portal-api/internal/models"
)

// Cache описывает методы кеша, необходимые хранилищу сессий.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Store хранит сессии и refresh-токены с заданными временами жизни.
type Store struct {
	cache      Cache
	sessionTTL time.Duration
	refreshTTL time.Duration
}

// NewStore создает хранилище сессий.
func NewStore(cache Cache, sessionTTL, refreshTTL time.Duration) *Store {
	return &Store{
		cache:      cache,
		sessionTTL: sessionTTL,
		refreshTTL: refreshTTL,
	}
}

func sessionKey(userUID string) string {
	return fmt.Sprintf("session:%s", userUID)
}

func refreshKey(userUID string) string {
	return fmt.Sprintf("refresh:%s", userUID)
}

// Save сохраняет сессию пользователя.
func (s *Store) Save(sess models.Session) error {
	return s.cache.Set(sessionKey(sess.UserUID), sess, s.sessionTTL)
}

// Load возвращает сессию пользователя, если она существует.
func (s *Store) Load(userUID string) (*models.Session, bool, error) {
	var sess models.Session
	found, err := s.cache.Get(sessionKey(userUID), &sess)
	if err != nil || !found {
		return nil, false, err
	}
	return &sess, true, nil
}

// Delete удаляет сессию и refresh-токен пользователя.
func (s *Store) Delete(userUID string) error {
	if err := s.cache.Invalidate(sessionKey(userUID)); err != nil {
		return err
	}
	return s.cache.Invalidate(refreshKey(userUID))
}

// SaveRefresh сохраняет refresh-токен пользователя.
func (s *Store) SaveRefresh(userUID, token string) error {
	return s.cache.Set(refreshKey(userUID), token, s.refreshTTL)
}

// CheckRefresh проверяет, что переданный refresh-токен совпадает с сохраненным.
func (s *Store) CheckRefresh(userUID, token string) (bool, error) {
	var stored string
	found, err := s.cache.Get(refreshKey(userUID), &stored)
	if err != nil || !found {
		return false, err
	}
	return stored == token, nil
}
