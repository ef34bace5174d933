package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matrimony-portal/portal-api/internal/models"
)

func testResolver() *Resolver {
	return NewResolver(Limits{
		FreeDailyProposals:    3,
		FreeDailyProfileViews: 10,
	})
}

func TestResolve_PremiumUser(t *testing.T) {
	caps := testResolver().Resolve(models.Session{
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionTier:   models.TierPremium,
	})

	assert.True(t, caps.IsPremium)
	assert.False(t, caps.IsFree)
	assert.True(t, caps.CanMessage)
	assert.True(t, caps.CanUseAdvancedFilters)
	assert.Equal(t, Unlimited, caps.ProposalDailyLimit)
	assert.Equal(t, Unlimited, caps.ProfileViewDailyLimit)
	assert.True(t, IsUnlimited(caps.ProposalDailyLimit))
}

func TestResolve_FreeUser(t *testing.T) {
	tests := []struct {
		name   string
		status string
		tier   string
	}{
		{"free tier", models.SubscriptionActive, models.TierFree},
		{"expired premium", models.SubscriptionExpired, models.TierPremium},
		{"expired free", models.SubscriptionExpired, models.TierFree},
		{"no tier", models.SubscriptionActive, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := testResolver().Resolve(models.Session{
				Role:               models.RoleUser,
				SubscriptionStatus: tt.status,
				SubscriptionTier:   tt.tier,
			})

			assert.False(t, caps.IsPremium)
			assert.True(t, caps.IsFree)
			assert.False(t, caps.CanMessage)
			assert.False(t, caps.CanUseAdvancedFilters)
			assert.Equal(t, 3, caps.ProposalDailyLimit)
			assert.Equal(t, 10, caps.ProfileViewDailyLimit)
			assert.False(t, IsUnlimited(caps.ProposalDailyLimit))
		})
	}
}

func TestResolve_Organizer(t *testing.T) {
	caps := testResolver().Resolve(models.Session{Role: models.RoleOrganizer})

	assert.False(t, caps.IsPremium)
	assert.False(t, caps.IsFree)
	assert.True(t, caps.CanMessage)
	assert.False(t, caps.CanUseAdvancedFilters)
}

func TestResolve_Admin(t *testing.T) {
	caps := testResolver().Resolve(models.Session{Role: models.RoleAdmin})

	assert.False(t, caps.IsPremium)
	assert.False(t, caps.IsFree)
	assert.False(t, caps.CanMessage)
}
