package constants

type TaskStatus string

const (
	StatusDraft      TaskStatus = "draft"
	StatusOpen       TaskStatus = "open"
	StatusAssigned   TaskStatus = "assigned"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusDisputed   TaskStatus = "disputed"
	StatusClosed     TaskStatus = "closed"
)

var TaskStatuses = []TaskStatus{
	StatusDraft,
	StatusOpen,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusDisputed,
	StatusClosed,
}

func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the human readable form used in notification text.
func (s TaskStatus) Label() string {
	if s == StatusInProgress {
		return "in progress"
	}
	return string(s)
}
