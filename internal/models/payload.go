package model

import (
	"fmt"

	"task-market.com/task-market/internal/constants"
)

type PayloadKind string

const (
	PayloadTask        PayloadKind = "task"
	PayloadApplication PayloadKind = "application"
	PayloadMessage     PayloadKind = "message"
	PayloadPayment     PayloadKind = "payment"
)

// NotificationPayload is a closed variant: Kind selects which one of the
// pointer fields is populated. Use the constructors below.
type NotificationPayload struct {
	Kind        PayloadKind           `json:"kind"`
	Action      constants.EventAction `json:"action"`
	Task        *TaskEvent            `json:"task,omitempty"`
	Application *ApplicationEvent     `json:"application,omitempty"`
	Message     *MessageEvent         `json:"message,omitempty"`
	Payment     *PaymentEvent         `json:"payment,omitempty"`
}

type TaskEvent struct {
	TaskID string               `json:"task_id"`
	Status constants.TaskStatus `json:"status,omitempty"`
}

type ApplicationEvent struct {
	TaskID        string `json:"task_id"`
	ApplicationID string `json:"application_id,omitempty"`
}

type MessageEvent struct {
	ChatID          string `json:"chat_id"`
	SenderProfileID string `json:"sender_profile_id"`
}

type PaymentEvent struct {
	TaskID string  `json:"task_id"`
	Amount float64 `json:"amount"`
}

func NewTaskPayload(action constants.EventAction, taskID string, status constants.TaskStatus) NotificationPayload {
	return NotificationPayload{
		Kind:   PayloadTask,
		Action: action,
		Task:   &TaskEvent{TaskID: taskID, Status: status},
	}
}

func NewApplicationPayload(action constants.EventAction, taskID, applicationID string) NotificationPayload {
	return NotificationPayload{
		Kind:        PayloadApplication,
		Action:      action,
		Application: &ApplicationEvent{TaskID: taskID, ApplicationID: applicationID},
	}
}

func NewMessagePayload(chatID, senderProfileID string) NotificationPayload {
	return NotificationPayload{
		Kind:    PayloadMessage,
		Action:  constants.ActionNewMessage,
		Message: &MessageEvent{ChatID: chatID, SenderProfileID: senderProfileID},
	}
}

func NewPaymentPayload(action constants.EventAction, taskID string, amount float64) NotificationPayload {
	return NotificationPayload{
		Kind:    PayloadPayment,
		Action:  action,
		Payment: &PaymentEvent{TaskID: taskID, Amount: amount},
	}
}

// Validate reports whether exactly the variant named by Kind is set.
func (p NotificationPayload) Validate() error {
	set := 0
	for _, present := range []bool{p.Task != nil, p.Application != nil, p.Message != nil, p.Payment != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("payload %q must carry exactly one variant, has %d", p.Kind, set)
	}

	var ok bool
	switch p.Kind {
	case PayloadTask:
		ok = p.Task != nil
	case PayloadApplication:
		ok = p.Application != nil
	case PayloadMessage:
		ok = p.Message != nil
	case PayloadPayment:
		ok = p.Payment != nil
	}
	if !ok {
		return fmt.Errorf("payload kind %q does not match its variant", p.Kind)
	}
	return nil
}

// TaskID returns the task the payload refers to, if any.
func (p NotificationPayload) TaskID() string {
	switch {
	case p.Task != nil:
		return p.Task.TaskID
	case p.Application != nil:
		return p.Application.TaskID
	case p.Payment != nil:
		return p.Payment.TaskID
	}
	return ""
}
