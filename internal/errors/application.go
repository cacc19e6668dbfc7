package errors

import "net/http"

var ErrApplicationNotFound = &Exception{
	Message:    "application not found",
	StatusCode: http.StatusNotFound,
}

var ErrAlreadyApplied = &Exception{
	Message:    "you have already applied to this task",
	StatusCode: http.StatusConflict,
}

var ErrApplicationClosed = &Exception{
	Message:    "application is no longer pending",
	StatusCode: http.StatusConflict,
}

var ErrApplicationRequired = &Exception{
	Message:    "a task is assigned by accepting an application",
	StatusCode: http.StatusUnprocessableEntity,
}
