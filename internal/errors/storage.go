package errors

import (
	"errors"
	"net/http"
)

var ErrStorage = &Exception{
	Message:    "storage unavailable, please try again",
	StatusCode: http.StatusInternalServerError,
}

type storageError struct {
	cause error
}

func (e *storageError) Error() string {
	return "storage error: " + e.cause.Error()
}

func (e *storageError) Unwrap() error { return e.cause }

func (e *storageError) Is(target error) bool { return target == ErrStorage }

func (e *storageError) As(target any) bool {
	if p, ok := target.(**Exception); ok {
		*p = ErrStorage
		return true
	}
	return false
}

// StorageError marks err as a failed read or write against the store.
// Exceptions pass through untouched so their status is kept.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Exception
	if errors.As(err, &appErr) {
		return err
	}
	return &storageError{cause: err}
}
