package middlewarectx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/models"
)

func TestRequireRoles(t *testing.T) {
	logger := newNoopLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		allowed        []string
		role           any
		wantStatusCode int
	}{
		{
			name:           "matching role passes",
			allowed:        []string{models.RoleOrganizer},
			role:           models.RoleOrganizer,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "one of several roles passes",
			allowed:        []string{models.RoleUser, models.RoleAdmin},
			role:           models.RoleAdmin,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong role rejected as unauthenticated",
			allowed:        []string{models.RoleAdmin},
			role:           models.RoleUser,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing role rejected",
			allowed:        []string{models.RoleUser},
			role:           nil,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := middlewarectx.RequireRoles(logger, tt.allowed...)(next)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.role != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.Role, tt.role)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantStatusCode == http.StatusUnauthorized {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "/login", body["redirect"])
			}
		})
	}
}
