package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Message:    "you are not allowed to perform this action",
	StatusCode: http.StatusForbidden,
}

var ErrUnauthenticated = &Exception{
	Message:    "missing or invalid session",
	StatusCode: http.StatusUnauthorized,
}
