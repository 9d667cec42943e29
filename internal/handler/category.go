package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	triviaService *service.TriviaService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(triviaService *service.TriviaService) *CategoryHandler {
	return &CategoryHandler{
		triviaService: triviaService,
	}
}

// Register registers the category routes
func (h *CategoryHandler) Register(e *echo.Echo) {
	e.GET("/categories", h.ListCategories)
	e.GET("/categories/:id/questions", h.ListQuestionsByCategory)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.triviaService.ListCategories(c.Request().Context())
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusNotFound,
			invalid:     http.StatusNotFound,
			unavailable: http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}

// ListQuestionsByCategory godoc
// @Summary List the questions of one category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Param page query int false "Page number"
// @Success 200 {object} QuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id}/questions [get]
func (h *CategoryHandler) ListQuestionsByCategory(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return abort(http.StatusNotFound, err)
	}

	page, err := h.triviaService.QuestionsByCategory(c.Request().Context(), categoryID, pagination.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusNotFound,
			invalid:     http.StatusNotFound,
			unavailable: http.StatusNotFound,
		})
	}

	return c.JSON(http.StatusOK, newPage(page))
}
