// Package get реализует HTTP-обработчик карточки инструмента по id или slug.
package get

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
	Get(ctx context.Context, idOrSlug string) (*models.Tool, error)
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
// @Summary Карточка инструмента
// @Tags Tools
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "id или slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /tools/{idOrSlug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.get"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	key := chi.URLParam(r, "idOrSlug")
	tool, err := h.service.Get(r.Context(), key)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("tool not found", slog.String("key", key))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Tool not found"))
		return
	}
	if err != nil {
		log.Error("failed to get tool", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(tool))
}
