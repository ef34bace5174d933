package models

import "time"

// Session описывает аутентифицированную сессию пользователя.
// Создается при входе, хранится в redis и очищается при выходе.
// Остальные компоненты читают сессию, но не изменяют её.
type Session struct {
	UserUID            string    `json:"user_uid"`            // Идентификатор пользователя
	Username           string    `json:"username"`            // Имя пользователя
	Role               string    `json:"role"`                // Роль: user, organizer или admin
	SubscriptionStatus string    `json:"subscription_status"` // Статус подписки, пустая строка — ещё неизвестен
	SubscriptionTier   string    `json:"subscription_tier"`   // Тариф подписки
	CreatedAt          time.Time `json:"created_at"`          // Момент входа
}
