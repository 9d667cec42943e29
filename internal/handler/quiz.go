package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// QuizHandler serves quiz rounds
type QuizHandler struct {
	triviaService *service.TriviaService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(triviaService *service.TriviaService) *QuizHandler {
	return &QuizHandler{
		triviaService: triviaService,
	}
}

// Register registers the quiz routes
func (h *QuizHandler) Register(e *echo.Echo) {
	e.POST("/quizzes", h.PlayQuiz)
}

// PlayQuiz godoc
// @Summary Next quiz question
// @Description Picks a random question of the selected category (0 for all) that is not in previous_questions. question is null once every question has been played.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param round body domain.QuizRequest true "Quiz round"
// @Success 200 {object} map[string]any
// @Failure 422 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) PlayQuiz(c echo.Context) error {
	var req domain.QuizRequest
	if err := c.Bind(&req); err != nil {
		return abort(http.StatusUnprocessableEntity, err)
	}

	question, err := h.triviaService.PlayQuiz(c.Request().Context(), req)
	if err != nil {
		return fail(err, statusMap{
			notFound:    http.StatusUnprocessableEntity,
			invalid:     http.StatusUnprocessableEntity,
			unavailable: http.StatusUnprocessableEntity,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"question": question,
	})
}
