package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusCode(ErrInvalidTransition))
	assert.Equal(t, http.StatusForbidden, StatusCode(fmt.Errorf("accept: %w", ErrUnauthorized)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := StorageError(cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, ErrStorage.Message, Message(err))

	assert.Nil(t, StorageError(nil))
	assert.Same(t, ErrTaskNotFound, StorageError(ErrTaskNotFound))
}

func TestIdentityResolutionError(t *testing.T) {
	cause := errors.New("record not found")
	err := IdentityResolutionError("p-1", cause)

	assert.True(t, errors.Is(err, ErrIdentityResolution))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "p-1")

	assert.True(t, errors.Is(IdentityResolutionError("p-2", nil), ErrIdentityResolution))
}
