package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Message:    "task cannot move to the requested status",
	StatusCode: http.StatusConflict,
}
