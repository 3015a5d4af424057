// Package commentlist реализует HTTP-обработчик комментариев поста.
package commentlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type Service interface {
	Comments(ctx context.Context, postID string) ([]models.CommentWithAuthor, error)
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
// @Summary Комментарии поста
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param id path string true "id поста"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /community/posts/{id}/comments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forum.commentlist"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	comments, err := h.service.Comments(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Post not found"))
		return
	}
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(comments))
}
