package constants

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxDone       OutboxStatus = "done"
)

type OutboxKind string

const (
	OutboxTaskPosted          OutboxKind = "task_posted"
	OutboxStatusChanged       OutboxKind = "status_changed"
	OutboxApplicationReceived OutboxKind = "application_received"
	OutboxApplicationAccepted OutboxKind = "application_accepted"
	OutboxApplicationRejected OutboxKind = "application_rejected"
)
