// Package commentcreate реализует HTTP-обработчик нового комментария к посту.
package commentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	forumservice "github.com/magabrotheeeer/study-tools-hub/internal/services/forum"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type Service interface {
	Comment(ctx context.Context, postID, authorID string, in forumservice.CommentInput) (*models.CommentWithAuthor, error)
}

// Request — текст комментария и, для ответа в ветке, id родителя
type Request struct {
	Content       string `json:"content" validate:"required,max=2000"`
	ParentComment string `json:"parentComment"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Комментировать пост
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "id поста"
// @Param request body Request true "Комментарий"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /community/posts/{id}/comments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forum.commentcreate"

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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	postID := chi.URLParam(r, "id")
	comment, err := h.service.Comment(r.Context(), postID, userID, forumservice.CommentInput{
		Content:       req.Content,
		ParentComment: req.ParentComment,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Post not found"))
		return
	case errors.Is(err, forumservice.ErrInvalidParent):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Parent comment not found"))
		return
	case err != nil:
		log.Error("failed to create comment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Info("comment created", slog.String("post_id", postID), slog.String("comment_id", comment.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(comment))
}
