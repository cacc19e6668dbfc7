package validators

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-market.com/task-market/internal/constants"
	dto "task-market.com/task-market/internal/data_models"
)

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestValidateCreateTaskRequest(t *testing.T) {
	ok := dto.CreateTaskRequest{Title: "  Fix tap ", Description: "kitchen", Budget: 30}
	require.NoError(t, ValidateCreateTaskRequest(&ok))
	assert.Equal(t, "Fix tap", ok.Title)

	for _, r := range []dto.CreateTaskRequest{
		{Description: "d", Budget: 1},
		{Title: "t", Budget: 1},
		{Title: "t", Description: "d"},
		{Title: string(make([]rune, 121)), Description: "d", Budget: 1},
	} {
		assertBadRequest(t, ValidateCreateTaskRequest(&r))
	}
}

func TestValidateTransitionRequest(t *testing.T) {
	status, err := ValidateTransitionRequest(&dto.TransitionRequest{Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, status)

	_, err = ValidateTransitionRequest(&dto.TransitionRequest{})
	assertBadRequest(t, err)
	_, err = ValidateTransitionRequest(&dto.TransitionRequest{Status: "published"})
	assertBadRequest(t, err)
}

func TestValidateApplyRequest(t *testing.T) {
	require.NoError(t, ValidateApplyRequest(&dto.ApplyRequest{ProposedPrice: 10}))
	assertBadRequest(t, ValidateApplyRequest(&dto.ApplyRequest{}))
}

func TestValidateIntakeRequests(t *testing.T) {
	require.NoError(t, ValidateMessageSentRequest(&dto.MessageSentRequest{RecipientProfileID: "p", Body: "hi"}))
	assertBadRequest(t, ValidateMessageSentRequest(&dto.MessageSentRequest{RecipientProfileID: "p", Body: "  "}))

	require.NoError(t, ValidatePaymentEventRequest(&dto.PaymentEventRequest{Kind: "ready", Amount: 5}))
	assertBadRequest(t, ValidatePaymentEventRequest(&dto.PaymentEventRequest{Kind: "refund", Amount: 5}))
	assertBadRequest(t, ValidatePaymentEventRequest(&dto.PaymentEventRequest{Kind: "required"}))
}
