package errors

import "net/http"

var ErrInvalidLimit = &Exception{
	Message:    "limit must be between 1 and 100",
	StatusCode: http.StatusBadRequest,
}
