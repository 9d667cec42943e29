package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// HealthHandler reports liveness and store reachability
type HealthHandler struct {
	triviaService *service.TriviaService
}

func NewHealthHandler(triviaService *service.TriviaService) *HealthHandler {
	return &HealthHandler{triviaService: triviaService}
}

func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	if err := h.triviaService.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
