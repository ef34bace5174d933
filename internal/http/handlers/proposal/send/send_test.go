package send

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/proposal"
)

type ProposalServiceMock struct {
	mock.Mock
}

func (m *ProposalServiceMock) Send(ctx context.Context, sess models.Session, req models.DummySendProposal) (*models.Proposal, error) {
	args := m.Called(ctx, sess, req)
	p, _ := args.Get(0).(*models.Proposal)
	return p, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSendHandler_ServeHTTP(t *testing.T) {
	logger := newNoopLogger()

	freeSess := models.Session{
		UserUID:            "uid-1",
		Username:           "anna",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionTier:   models.TierFree,
	}

	created := &models.Proposal{
		ID:            "prp1",
		FromProfileID: "prf1",
		ToProfileID:   "prf2",
		Status:        models.ProposalPending,
	}

	tests := []struct {
		name           string
		withSession    bool
		requestBody    interface{}
		mockResp       *models.Proposal
		mockErr        error
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:           "proposal created",
			withSession:    true,
			requestBody:    models.DummySendProposal{ToProfileID: "prf2", Message: "hello"},
			mockResp:       created,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "quota exhausted blocks before write",
			withSession:    true,
			requestBody:    models.DummySendProposal{ToProfileID: "prf2"},
			mockErr:        proposal.ErrDailyLimitReached,
			wantStatusCode: http.StatusTooManyRequests,
			wantStatus:     "Error",
		},
		{
			name:           "recipient profile missing",
			withSession:    true,
			requestBody:    models.DummySendProposal{ToProfileID: "ghost"},
			mockErr:        proposal.ErrProfileNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
		},
		{
			name:           "missing session",
			withSession:    false,
			requestBody:    models.DummySendProposal{ToProfileID: "prf2"},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing recipient",
			withSession:    true,
			requestBody:    models.DummySendProposal{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ProposalServiceMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.On("Send", mock.Anything, freeSess, tt.requestBody.(models.DummySendProposal)).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			handler := New(logger, serviceMock)

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/proposals", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withSession {
				ctx = context.WithValue(ctx, middlewarectx.SessionKey, freeSess)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			serviceMock.AssertExpectations(t)
		})
	}

	t.Run("unauthenticated response redirects to login", func(t *testing.T) {
		handler := New(logger, new(ProposalServiceMock))

		req := httptest.NewRequest(http.MethodPost, "/proposals", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "/login", got["redirect"])
	})
}
