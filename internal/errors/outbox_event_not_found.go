package errors

import "net/http"

var ErrOutboxEventNotFound = &Exception{
	Message:    "outbox event not found",
	StatusCode: http.StatusNotFound,
}
