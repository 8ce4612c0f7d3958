package controllers

import (
	"log/slog"
	"net/http"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
)

// CategoryListSuccessResponse is the response envelope for GET /categories.
type CategoryListSuccessResponse struct {
	Message    string             `json:"message"`
	Categories []*domain.Category `json:"categories"`
}

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List categories
// @Description Returns all event categories. Public endpoint.
// @Tags categories
// @Produce json
// @Success 200 {object} controllers.CategoryListSuccessResponse "categories is an array of categories"
// @Failure 500 {object} helpers.MessageResponse
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	helpers.WriteJSONResource(w, http.StatusOK, "Categories Fetched Successfully", "categories", categories)
}
