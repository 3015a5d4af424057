// Package seed реализует HTTP-обработчик замены каталога встроенным набором инструментов.
package seed

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
)

type Service interface {
	SeedCatalog(ctx context.Context) (int, error)
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
// @Summary Перезаполнить каталог
// @Description Удаляет все инструменты и вставляет встроенный каталог. Только для администратора.
// @Tags Tools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /tools/seed [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.seed"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count, err := h.service.SeedCatalog(r.Context())
	if err != nil {
		log.Error("failed to seed catalog", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Info("catalog seeded", slog.Int("count", count))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Sample tools seeded successfully",
		"count":   count,
	}))
}
