package errors

import "net/http"

var ErrTaskNotOpen = &Exception{
	Message:    "task is not open for applications",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotDeletable = &Exception{
	Message:    "only draft or cancelled tasks can be deleted",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotAssigned = &Exception{
	Message:    "task has no assigned tasker",
	StatusCode: http.StatusConflict,
}
