package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-market.com/task-market/internal/constants"
	dto "task-market.com/task-market/internal/data_models"
)

func ValidateTransitionRequest(r *dto.TransitionRequest) (constants.TaskStatus, error) {
	if r.Status == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	status := constants.TaskStatus(r.Status)
	if !status.Valid() {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unknown status "+r.Status)
	}
	return status, nil
}
