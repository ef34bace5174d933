// Package capability вычисляет возможности пользователя из роли и подписки.
// Резолвер — чистая функция без состояния и ввода-вывода: одинаковые
// входные данные всегда дают одинаковый набор возможностей.
package capability

import "github.com/matrimony-portal/portal-api/internal/models"

// Unlimited обозначает отсутствие дневного лимита.
const Unlimited = -1

// Limits дневные лимиты бесплатного тарифа. Значения приходят из конфига,
// чтобы все обработчики использовали одни и те же константы.
type Limits struct {
	FreeDailyProposals    int
	FreeDailyProfileViews int
}

// Capabilities набор возможностей, производный от сессии.
// Не хранится и не имеет собственного жизненного цикла.
type Capabilities struct {
	IsPremium             bool `json:"is_premium"`
	IsFree                bool `json:"is_free"`
	CanMessage            bool `json:"can_message"`
	CanUseAdvancedFilters bool `json:"can_use_advanced_filters"`
	ProposalDailyLimit    int  `json:"proposal_daily_limit"`     // Unlimited (-1) для premium
	ProfileViewDailyLimit int  `json:"profile_view_daily_limit"` // Unlimited (-1) для premium
}

// Resolver вычисляет возможности по сессии.
type Resolver struct {
	limits Limits
}

// NewResolver создает резолвер с заданными лимитами бесплатного тарифа.
func NewResolver(limits Limits) *Resolver {
	return &Resolver{limits: limits}
}

// Resolve возвращает возможности для переданной сессии.
//
// premium выполняется только когда роль user, подписка активна и тариф premium;
// любая другая комбинация роли user считается бесплатным тарифом.
func (r *Resolver) Resolve(s models.Session) Capabilities {
	premium := s.Role == models.RoleUser &&
		s.SubscriptionStatus == models.SubscriptionActive &&
		s.SubscriptionTier == models.TierPremium
	free := s.Role == models.RoleUser && !premium

	caps := Capabilities{
		IsPremium:             premium,
		IsFree:                free,
		CanMessage:            premium || s.Role == models.RoleOrganizer,
		CanUseAdvancedFilters: premium,
		ProposalDailyLimit:    r.limits.FreeDailyProposals,
		ProfileViewDailyLimit: r.limits.FreeDailyProfileViews,
	}
	if premium {
		caps.ProposalDailyLimit = Unlimited
		caps.ProfileViewDailyLimit = Unlimited
	}
	return caps
}

// IsUnlimited сообщает, обозначает ли лимит отсутствие ограничения.
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}
