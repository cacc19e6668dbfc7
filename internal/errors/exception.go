package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message is the text shown to the user for err. Anything that is not an
// Exception is reported with the generic storage message.
func Message(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrStorage.Message
}
