package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matrimony-portal/portal-api/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status string
		tier   string
		want   Resolution
	}{
		{
			name: "premium user", role: models.RoleUser,
			status: models.SubscriptionActive, tier: models.TierPremium,
			want: Resolution{State: StateReady, Route: RoutePremium},
		},
		{
			name: "free user", role: models.RoleUser,
			status: models.SubscriptionActive, tier: models.TierFree,
			want: Resolution{State: StateReady, Route: RouteFree},
		},
		{
			name: "expired premium user", role: models.RoleUser,
			status: models.SubscriptionExpired, tier: models.TierPremium,
			want: Resolution{State: StateReady, Route: RouteFree},
		},
		{
			name: "user without tier", role: models.RoleUser,
			status: models.SubscriptionActive, tier: "",
			want: Resolution{State: StateReady, Route: RouteFree},
		},
		{
			name: "user with unknown subscription", role: models.RoleUser,
			status: "", tier: "",
			want: Resolution{State: StatePending},
		},
		{
			name: "organizer", role: models.RoleOrganizer,
			want: Resolution{State: StateReady, Route: RouteOrganizer},
		},
		{
			name: "admin", role: models.RoleAdmin,
			want: Resolution{State: StateReady, Route: RouteAdmin},
		},
		{
			name: "empty role", role: "",
			want: Resolution{State: StateReady, Route: RouteLogin},
		},
		{
			name: "unknown role", role: "moderator",
			want: Resolution{State: StateReady, Route: RouteLogin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.role, tt.status, tt.tier)
			assert.Equal(t, tt.want, got)
		})
	}
}
