package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
)

func ValidateApplyRequest(r *dto.ApplyRequest) error {
	if r.ProposedPrice <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "proposed_price must be greater than 0")
	}
	if len([]rune(r.Message)) > 1000 {
		return echo.NewHTTPError(http.StatusBadRequest, "message must be at most 1000 characters")
	}
	return nil
}
