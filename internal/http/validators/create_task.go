package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
)

const maxTitleLength = 120

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)

	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if len([]rune(r.Title)) > maxTitleLength {
		return echo.NewHTTPError(http.StatusBadRequest, "title must be at most 120 characters")
	}
	if r.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if r.Budget <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "budget must be greater than 0")
	}
	return nil
}
