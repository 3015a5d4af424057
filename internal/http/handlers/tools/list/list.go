// Package list реализует HTTP-обработчик выборки каталога инструментов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	toolsservice "github.com/magabrotheeeer/study-tools-hub/internal/services/tools"
)

type Service interface {
	List(ctx context.Context, f toolsservice.Filter) ([]models.Tool, error)
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
// @Summary Каталог инструментов
// @Tags Tools
// @Produce json
// @Security BearerAuth
// @Param search query string false "Поиск по названию, описанию и возможностям"
// @Param bestFor query string false "Экзамен (JEE, NEET)"
// @Param platform query string false "Платформа (WEB, ANDROID, IOS, DESKTOP)"
// @Param category query string false "Категория"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Нужна подписка"
// @Router /tools [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.list"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := toolsservice.Filter{
		Search:   q.Get("search"),
		BestFor:  q.Get("bestFor"),
		Platform: q.Get("platform"),
		Category: q.Get("category"),
	}

	tools, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list tools", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Info("tools listed", slog.Int("count", len(tools)))
	render.JSON(w, r, response.StatusOKWithData(tools))
}
