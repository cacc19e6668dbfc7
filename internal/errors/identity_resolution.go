package errors

import (
	"fmt"
	"net/http"
)

var ErrIdentityResolution = &Exception{
	Message:    "profile has no linked account",
	StatusCode: http.StatusInternalServerError,
}

type identityError struct {
	profileID string
	cause     error
}

func (e *identityError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("resolve account for profile %s: %v", e.profileID, e.cause)
	}
	return fmt.Sprintf("resolve account for profile %s: %s", e.profileID, ErrIdentityResolution.Message)
}

func (e *identityError) Unwrap() error { return e.cause }

func (e *identityError) Is(target error) bool { return target == ErrIdentityResolution }

func IdentityResolutionError(profileID string, cause error) error {
	return &identityError{profileID: profileID, cause: cause}
}
