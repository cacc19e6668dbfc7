package errors

import "net/http"

var ErrTooManyStreams = &Exception{
	Message:    "too many live notification streams, try again later",
	StatusCode: http.StatusServiceUnavailable,
}
