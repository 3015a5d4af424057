// Package create реализует HTTP-обработчик оформления премиум-подписки у платёжного провайдера.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	subscriptionservice "github.com/magabrotheeeer/study-tools-hub/internal/services/subscription"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

// Service описывает оформление подписки для пользователя.
type Service interface {
	CreateSubscription(ctx context.Context, userID string) (*subscriptionservice.Checkout, error)
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
// @Summary Оформить подписку
// @Description Возвращает подписку провайдера и публичный ключ для клиентской оплаты.
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "У пользователя нет клиента в провайдере"
// @Failure 401 {object} response.ErrorResponse
// @Router /subscription/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

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

	checkout, err := h.service.CreateSubscription(r.Context(), userID)
	switch {
	case errors.Is(err, subscriptionservice.ErrNoCustomer):
		log.Info("user has no billing customer", slog.String("user_id", userID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Customer not found"))
		return
	case errors.Is(err, repository.ErrNotFound):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Unauthorized"))
		return
	case err != nil:
		log.Error("failed to create subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Info("subscription created", slog.String("subscription_id", checkout.Subscription.ID))
	render.JSON(w, r, response.StatusOKWithData(checkout))
}
