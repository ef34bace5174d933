// Package dashboard выбирает вариант кабинета по роли и подписке.
// Это чистая таблица решений без собственного состояния.
package dashboard

import "github.com/matrimony-portal/portal-api/internal/models"

// Маршруты вариантов кабинета.
const (
	RoutePremium   = "/dashboard/premium"
	RouteFree      = "/dashboard/free"
	RouteOrganizer = "/dashboard/organizer"
	RouteAdmin     = "/dashboard/admin"
	RouteLogin     = "/login"
)

// State результат выбора кабинета.
type State string

const (
	// StateReady маршрут определен.
	StateReady State = "ready"
	// StatePending роль user, но статус подписки еще неизвестен —
	// клиент должен показать состояние загрузки, а не редиректить.
	StatePending State = "pending"
)

// Resolution вариант кабинета для сессии.
type Resolution struct {
	State State  `json:"state"`
	Route string `json:"route,omitempty"`
}

// Resolve возвращает вариант кабинета для роли и подписки.
//
// Premium-кабинет доступен только при активной подписке тарифа premium;
// все остальные комбинации роли user ведут в бесплатный кабинет.
// Неизвестная или пустая роль отправляет на /login.
func Resolve(role, subscriptionStatus, subscriptionTier string) Resolution {
	switch role {
	case models.RoleUser:
		if subscriptionStatus == "" {
			return Resolution{State: StatePending}
		}
		if subscriptionStatus == models.SubscriptionActive && subscriptionTier == models.TierPremium {
			return Resolution{State: StateReady, Route: RoutePremium}
		}
		return Resolution{State: StateReady, Route: RouteFree}
	case models.RoleOrganizer:
		return Resolution{State: StateReady, Route: RouteOrganizer}
	case models.RoleAdmin:
		return Resolution{State: StateReady, Route: RouteAdmin}
	default:
		return Resolution{State: StateReady, Route: RouteLogin}
	}
}
