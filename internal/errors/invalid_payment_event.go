package errors

import "net/http"

var ErrInvalidPaymentEvent = &Exception{
	Message:    "unknown payment event",
	StatusCode: http.StatusBadRequest,
}
