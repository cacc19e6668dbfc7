package services

import (
	"context"
	"strings"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/workflow"
)

type PaymentEventKind string

const (
	PaymentRequired PaymentEventKind = "required"
	PaymentReady    PaymentEventKind = "ready"
)

// IntakeService accepts events from collaborators that own their own
// storage (chat, payment gateway) and turns them into notifications.
type IntakeService struct {
	store    *repository.Store
	notifier *NotificationService
}

func NewIntakeService(store *repository.Store, notifier *NotificationService) *IntakeService {
	return &IntakeService{store: store, notifier: notifier}
}

// MessageSent notifies the recipient of a chat message the actor sent.
func (s *IntakeService) MessageSent(ctx context.Context, actor workflow.Actor, chatID, recipientProfileID, body string) error {
	if actor.ProfileID == "" || recipientProfileID == actor.ProfileID {
		return apperrors.ErrUnauthorized
	}
	if _, err := s.store.Profiles.FindByID(ctx, recipientProfileID); err != nil {
		return notFoundOr(err, apperrors.ErrProfileNotFound)
	}

	s.notifier.NotifyNewMessage(
		WithOrigin(ctx, actor.AccountID),
		chatID,
		actor.ProfileID,
		recipientProfileID,
		actor.Name,
		strings.TrimSpace(body),
	)
	return nil
}

// Payment records a gateway event for a task. Only admins and the system
// speak for the gateway.
func (s *IntakeService) Payment(
	ctx context.Context,
	actor workflow.Actor,
	taskID string,
	kind PaymentEventKind,
	amount float64,
) error {
	if !actor.System && actor.Role != constants.RoleAdmin {
		return apperrors.ErrUnauthorized
	}

	task, err := s.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return notFoundOr(err, apperrors.ErrTaskNotFound)
	}
	ctx = WithOrigin(ctx, actor.AccountID)

	switch kind {
	case PaymentRequired:
		payer, err := s.store.Profiles.FindByID(ctx, task.CustomerID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrProfileNotFound)
		}
		if payer.AccountID == nil || *payer.AccountID == "" {
			return apperrors.ErrProfileNotFound
		}
		s.notifier.NotifyPaymentRequired(ctx, task.ID, task.Title, *payer.AccountID, amount)

	case PaymentReady:
		if task.TaskerID == nil {
			return apperrors.ErrTaskNotAssigned
		}
		s.notifier.NotifyPaymentReady(ctx, task.ID, task.Title, *task.TaskerID, amount)

	default:
		return apperrors.ErrInvalidPaymentEvent
	}
	return nil
}
