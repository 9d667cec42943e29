package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	triviaService *service.TriviaService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(triviaService *service.TriviaService) *QuestionHandler {
	return &QuestionHandler{
		triviaService: triviaService,
	}
}

// Register registers the question routes
func (h *QuestionHandler) Register(e *echo.Echo) {
	e.GET("/questions", h.ListQuestions)
	e.POST("/questions", h.CreateQuestion)
	e.GET("/questions/:id", h.GetQuestion)
	e.DELETE("/questions/:id", h.DeleteQuestion)
	e.POST("/searchQuestions", h.SearchQuestions)
}

// SearchRequest represents the body of a search
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// ListQuestions godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} QuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	page, err := h.triviaService.ListQuestions(c.Request().Context(), pagination.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusNotFound,
			invalid:     http.StatusNotFound,
			unavailable: http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, newPage(page))
}

// GetQuestion returns a single question
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return abort(http.StatusNotFound, err)
	}

	question, err := h.triviaService.GetQuestion(c.Request().Context(), id)
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusNotFound,
			invalid:     http.StatusNotFound,
			unavailable: http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"question": question,
	})
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} QuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return abort(http.StatusNotFound, err)
	}

	page, err := h.triviaService.DeleteQuestion(c.Request().Context(), id, pagination.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusNotFound,
			invalid:     http.StatusNotFound,
			unavailable: http.StatusNotFound,
		})
	}

	return c.JSON(http.StatusOK, newPage(page))
}

// CreateQuestion godoc
// @Summary Create a question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body domain.NewQuestion true "Question"
// @Success 200 {object} map[string]any
// @Failure 422 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req domain.NewQuestion
	if err := c.Bind(&req); err != nil {
		return abort(http.StatusUnprocessableEntity, err)
	}

	if err := c.Validate(&req); err != nil {
		return abort(http.StatusUnprocessableEntity, err)
	}

	id, err := h.triviaService.CreateQuestion(c.Request().Context(), req)
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusUnprocessableEntity,
			invalid:     http.StatusUnprocessableEntity,
			unavailable: http.StatusUnprocessableEntity,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"created": id,
	})
}

// SearchQuestions godoc
// @Summary Search questions by substring, ignoring case
// @Tags questions
// @Accept json
// @Produce json
// @Param search body SearchRequest true "Search term"
// @Param page query int false "Page number"
// @Success 200 {object} QuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /searchQuestions [post]
func (h *QuestionHandler) SearchQuestions(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return abort(http.StatusNotFound, err)
	}
	if req.SearchTerm == nil {
		return abort(http.StatusNotFound, nil)
	}

	page, err := h.triviaService.SearchQuestions(c.Request().Context(), *req.SearchTerm, pagination.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusNotFound,
			invalid:     http.StatusNotFound,
			unavailable: http.StatusNotFound,
		})
	}

	return c.JSON(http.StatusOK, newPage(page))
}
