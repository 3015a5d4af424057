// Package verify реализует HTTP-обработчик подтверждения оплаты подписки.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type Service interface {
	Activate(ctx context.Context, userID string) (*models.User, error)
}

// Request — данные платежа от клиентского виджета. Провайдер тестовый, подпись не проверяется.
type Request struct {
	PaymentID      string `json:"paymentId"`
	SubscriptionID string `json:"subscriptionId"`
	Signature      string `json:"signature"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Переводит подписку пользователя в ACTIVE на один период.
// @Tags Subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request false "Данные платежа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /subscription/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.verify"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if _, err := h.service.Activate(r.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}
		log.Error("failed to activate subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Info("payment verified", slog.String("user_id", userID), slog.String("payment_id", req.PaymentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Mock subscription verified successfully",
	}))
}
