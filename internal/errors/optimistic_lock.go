package errors

import "net/http"

var ErrOptimisticLock = &Exception{
	Message:    "task was changed by someone else, reload and try again",
	StatusCode: http.StatusConflict,
}
