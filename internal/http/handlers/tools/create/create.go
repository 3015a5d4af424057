// Package create реализует HTTP-обработчик добавления инструмента в каталог.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
)

type Service interface {
	Create(ctx context.Context, tool models.Tool) (*models.Tool, error)
}

// Request — карточка нового инструмента
type Request struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Website     string   `json:"website" validate:"required,url"`
	Pricing     string   `json:"pricing" validate:"required"`
	Features    []string `json:"features"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Platforms   []string `json:"platforms"`
	BestFor     []string `json:"bestFor"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"reviewCount" validate:"gte=0"`
	Logo        string   `json:"logo"`
}

func (req Request) tool() models.Tool {
	return models.Tool{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Website:     req.Website,
		Pricing:     req.Pricing,
		Features:    req.Features,
		Pros:        req.Pros,
		Cons:        req.Cons,
		Platforms:   req.Platforms,
		BestFor:     req.BestFor,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		Logo:        req.Logo,
	}
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
// @Summary Добавить инструмент
// @Description Доступно только администратору. Slug строится из названия.
// @Tags Tools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Карточка инструмента"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /tools [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.create"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	tool, err := h.service.Create(r.Context(), req.tool())
	if err != nil {
		log.Error("failed to create tool", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	log.Info("tool created", slog.String("tool_id", tool.ID), slog.String("slug", tool.Slug))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(tool))
}
