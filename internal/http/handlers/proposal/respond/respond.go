// Package respond реализует HTTP-обработчик ответа на предложение знакомства.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/proposal"
	"github.com/matrimony-portal/portal-api/internal/storage/demostore"
)

// Handler обрабатывает HTTP-запросы ответа на предложение.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ответа на предложение.
type Service interface {
	Respond(ctx context.Context, sess models.Session, proposalID string, accept bool) (*models.Proposal, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ответить на предложение знакомства
// @Description Принимает или отклоняет предложение, адресованное анкете пользователя.
// @Tags Proposals
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор предложения"
// @Param request body models.DummyRespondProposal true "Решение"
// @Success 200 {object} map[string]any "Обновленное предложение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Предложение адресовано другой анкете"
// @Failure 404 {object} response.ErrorResponse "Предложение не найдено"
// @Failure 409 {object} response.ErrorResponse "Предложение уже отвечено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /proposals/{id}/respond [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.respond"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Unauthorized("authentication required"))
		return
	}

	proposalID := chi.URLParam(r, "id")
	if proposalID == "" {
		log.Error("proposal id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("proposal id is required"))
		return
	}

	var req models.DummyRespondProposal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	updated, err := h.service.Respond(r.Context(), sess, proposalID, req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, demostore.ErrNotFound), errors.Is(err, proposal.ErrProfileNotFound):
			log.Error("proposal not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("proposal not found"))
		case errors.Is(err, proposal.ErrNotRecipient):
			log.Error("proposal addressed to another profile", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, proposal.ErrAlreadyAnswered):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to respond to proposal", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not respond to proposal"))
		}
		return
	}

	log.Info("proposal answered",
		slog.String("proposal_id", proposalID),
		slog.String("status", updated.Status))
	render.JSON(w, r, response.StatusOKWithData(updated))
}
