// Package like реализует HTTP-обработчик переключения лайка поста.
package like

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type Service interface {
	ToggleLike(ctx context.Context, postID, userID string) (bool, int, error)
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
// @Summary Лайк поста
// @Description Повторный вызов снимает лайк.
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path string true "id поста"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /community/posts/{id}/like [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forum.like"

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

	postID := chi.URLParam(r, "id")
	liked, count, err := h.service.ToggleLike(r.Context(), postID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Post not found"))
		return
	}
	if err != nil {
		log.Error("failed to toggle like", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Debug("like toggled", slog.String("post_id", postID), slog.Bool("liked", liked))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"liked":      liked,
		"likesCount": count,
	}))
}
