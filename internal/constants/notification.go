package constants

type NotificationType string

const (
	NotificationTask        NotificationType = "task"
	NotificationMessage     NotificationType = "message"
	NotificationApplication NotificationType = "application"
	NotificationBooking     NotificationType = "booking"
	NotificationPayment     NotificationType = "payment"
	NotificationSystem      NotificationType = "system"
)

// EventAction names the domain event a notification was produced for.
type EventAction string

const (
	ActionNewTask             EventAction = "new_task"
	ActionApplicationReceived EventAction = "application_received"
	ActionApplicationAccepted EventAction = "application_accepted"
	ActionApplicationRejected EventAction = "application_rejected"
	ActionStatusChanged       EventAction = "status_changed"
	ActionNewMessage          EventAction = "new_message"
	ActionPaymentRequired     EventAction = "payment_required"
	ActionPaymentReady        EventAction = "payment_ready"
)
