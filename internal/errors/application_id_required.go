package errors

import "net/http"

var ErrApplicationIDRequired = &Exception{
	Message:    "application id is required",
	StatusCode: http.StatusBadRequest,
}
