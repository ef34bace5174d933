// Package models содержит доменные структуры портала: учетные записи,
// сессии, анкеты, предложения и мероприятия, а также вспомогательные
// типы для приема данных из JSON-запросов.
package models

import "time"

// Роли учетных записей.
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Статусы подписки для роли user.
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// Тарифы подписки для роли user.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// User представляет зарегистрированного пользователя портала.
type User struct {
	UUID               string    // Уникальный идентификатор пользователя
	Email              string    // Электронная почта
	Username           string    // Имя пользователя (уникальное)
	PasswordHash       string    // Хэш пароля пользователя
	Role               string    // Роль: user, organizer или admin
	SubscriptionStatus string    // Статус подписки: active или expired, пустая строка — неизвестен
	SubscriptionTier   string    // Тариф: free или premium, пустая строка — не назначен
	ProfileID          string    // Идентификатор анкеты в демо-хранилище
	CreatedAt          time.Time // Дата регистрации
}

// DummyRegisterRequest используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`    // Пароль (не короче 8 символов)
}

// DummyLoginRequest используется для приёма данных входа из JSON-запроса.
type DummyLoginRequest struct {
	Username string `json:"username" validate:"required"` // Имя пользователя
	Password string `json:"password" validate:"required"` // Пароль
}

// DummyRefreshRequest используется для обновления пары токенов.
type DummyRefreshRequest struct {
	Username     string `json:"username" validate:"required"`      // Имя пользователя
	RefreshToken string `json:"refresh_token" validate:"required"` // Refresh-токен
}
