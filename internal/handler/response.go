package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// QuestionsResponse carries one page of questions
type QuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      map[int]string    `json:"categories,omitempty"`
	CurrentCategory *string           `json:"current_category"`
}

var messages = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusNotFound:            "Resource not found",
	http.StatusMethodNotAllowed:    "Method not allowed",
	http.StatusUnprocessableEntity: "Unprocessable request",
	http.StatusInternalServerError: "Internal server error",
}

// statusMap tells how one endpoint reports each error kind. Untyped errors
// are reported like store faults.
type statusMap struct {
	notFound    int
	invalid     int
	unavailable int
}

func (m statusMap) status(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return m.notFound
	case domain.KindValidation:
		return m.invalid
	default:
		return m.unavailable
	}
}

// fail turns a service error into the HTTP error the endpoint reports,
// keeping the cause for the error handler's log.
func fail(err error, m statusMap) error {
	return abort(m.status(err), err)
}

func abort(code int, cause error) error {
	he := echo.NewHTTPError(code)
	if cause != nil {
		he.SetInternal(cause)
	}
	return he
}

func newPage(page *domain.QuestionPage) QuestionsResponse {
	return QuestionsResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		Categories:      page.Categories,
		CurrentCategory: page.CurrentCategory,
	}
}

// ErrorHandler renders every error as an ErrorResponse. Causes are logged,
// never sent.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Internal != nil {
			c.Logger().Debugf("%s %s: %v", c.Request().Method, c.Path(), he.Internal)
		}
	} else {
		c.Logger().Error(err)
	}

	message, ok := messages[code]
	if !ok {
		message = http.StatusText(code)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Success: false, Error: code, Message: message})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
