// Package send реализует HTTP-обработчик отправки предложения знакомства.
//
// Дневная квота бесплатного тарифа проверяется до создания записи:
// исчерпанная квота возвращает 429 с предложением перейти на premium.
package send

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/matrimony-portal/portal-api/internal/http/middlewarectx"
	"github.com/matrimony-portal/portal-api/internal/http/response"
	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/services/proposal"
)

// Handler обрабатывает HTTP-запросы отправки предложений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отправки предложения.
type Service interface {
	Send(ctx context.Context, sess models.Session, req models.DummySendProposal) (*models.Proposal, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить предложение знакомства
// @Description Создает предложение от анкеты пользователя. Бесплатный тариф ограничен дневной квотой.
// @Tags Proposals
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummySendProposal true "Предложение"
// @Success 200 {object} map[string]any "Созданное предложение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.RedirectResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Дневная квота исчерпана"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /proposals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.send"

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

	var req models.DummySendProposal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	created, err := h.service.Send(r.Context(), sess, req)
	if err != nil {
		switch {
		case errors.Is(err, proposal.ErrDailyLimitReached):
			log.Info("daily proposal limit reached", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, proposal.ErrProfileNotFound):
			log.Error("profile not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		case errors.Is(err, proposal.ErrBlocked):
			log.Info("recipient has blocked sender", slog.String("user_uid", sess.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to send proposal", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not send proposal"))
		}
		return
	}

	log.Info("proposal sent", slog.String("proposal_id", created.ID))
	render.JSON(w, r, response.StatusOKWithData(created))
}
