package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

// UserFinder читает пользователя из хранилища.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AccessChecker решает, открыт ли пользователю платный контент.
type AccessChecker interface {
	HasAccess(user models.User) bool
}

// SubscriptionMiddleware создает middleware для проверки доступа по подписке.
// Пользователь читается из хранилища на каждый запрос, а не берётся из токена.
func SubscriptionMiddleware(log *slog.Logger, users UserFinder, access AccessChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SubscriptionMiddleware"

			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Unauthorized"))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if errors.Is(err, repository.ErrNotFound) {
				log.Warn("token owner no longer exists", slog.String("user_id", userID))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Unauthorized"))
				return
			}
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("Internal server error"))
				return
			}

			if !access.HasAccess(*user) {
				log.Info("subscription required", slog.String("user_id", userID), slog.String("status", string(user.SubscriptionStatus)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("Subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
