package resolve

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResolveHandler_ServeHTTP(t *testing.T) {
	handler := New(newNoopLogger())

	tests := []struct {
		name           string
		sess           *models.Session
		wantStatusCode int
		wantRoute      string
		wantState      string
	}{
		{
			name: "premium user",
			sess: &models.Session{
				UserUID:            "uid-1",
				Role:               models.RoleUser,
				SubscriptionStatus: models.SubscriptionActive,
				SubscriptionTier:   models.TierPremium,
			},
			wantStatusCode: http.StatusOK,
			wantRoute:      "/dashboard/premium",
			wantState:      "ready",
		},
		{
			name: "free user",
			sess: &models.Session{
				UserUID:            "uid-2",
				Role:               models.RoleUser,
				SubscriptionStatus: models.SubscriptionExpired,
				SubscriptionTier:   models.TierPremium,
			},
			wantStatusCode: http.StatusOK,
			wantRoute:      "/dashboard/free",
			wantState:      "ready",
		},
		{
			name: "organizer",
			sess: &models.Session{
				UserUID: "uid-3",
				Role:    models.RoleOrganizer,
			},
			wantStatusCode: http.StatusOK,
			wantRoute:      "/dashboard/organizer",
			wantState:      "ready",
		},
		{
			name: "admin",
			sess: &models.Session{
				UserUID: "uid-4",
				Role:    models.RoleAdmin,
			},
			wantStatusCode: http.StatusOK,
			wantRoute:      "/dashboard/admin",
			wantState:      "ready",
		},
		{
			name: "user with unknown subscription waits",
			sess: &models.Session{
				UserUID: "uid-5",
				Role:    models.RoleUser,
			},
			wantStatusCode: http.StatusAccepted,
			wantState:      "pending",
		},
		{
			name:           "no session",
			sess:           nil,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.sess != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.SessionKey, *tt.sess)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantStatusCode == http.StatusUnauthorized {
				assert.Equal(t, "/login", got["redirect"])
				return
			}

			data, ok := got["data"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantState, data["state"])
			if tt.wantRoute != "" {
				assert.Equal(t, tt.wantRoute, data["route"])
			}
		})
	}
}
