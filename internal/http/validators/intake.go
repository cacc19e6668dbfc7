package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
)

func ValidateMessageSentRequest(r *dto.MessageSentRequest) error {
	if r.RecipientProfileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "recipient_profile_id is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "body is required")
	}
	return nil
}

func ValidatePaymentEventRequest(r *dto.PaymentEventRequest) error {
	if r.Kind != "required" && r.Kind != "ready" {
		return echo.NewHTTPError(http.StatusBadRequest, `kind must be "required" or "ready"`)
	}
	if r.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be greater than 0")
	}
	return nil
}
