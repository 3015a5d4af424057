// Package postlist реализует HTTP-обработчик ленты форума.
package postlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	forumservice "github.com/magabrotheeeer/study-tools-hub/internal/services/forum"
)

type Service interface {
	List(ctx context.Context, f forumservice.Filter) ([]models.PostWithAuthor, error)
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
// @Summary Лента форума
// @Description Новые посты сверху, не больше 50.
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param search query string false "Поиск по заголовку, тексту и тегам"
// @Param category query string false "Категория"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /community/posts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.forum.postlist"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := forumservice.Filter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	posts, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(posts))
}
