package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"task-market.com/task-market/internal/alerts"
	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
	"task-market.com/task-market/internal/realtime"
	repository "task-market.com/task-market/internal/repositories"
)

const messagePreviewLength = 100

// SessionChecker reports whether an account has a live session here.
type SessionChecker interface {
	IsActive(accountID string) bool
}

// NotificationService turns domain events into notification rows, realtime
// events and push alerts. The notify methods are best-effort: they log
// failures and never return them.
type NotificationService struct {
	repo     *repository.NotificationRepository
	resolver *IdentityResolver
	feed     realtime.Feed
	alerts   alerts.Scheduler
	sessions SessionChecker
	now      func() time.Time
}

func NewNotificationService(
	repo *repository.NotificationRepository,
	resolver *IdentityResolver,
	feed realtime.Feed,
	scheduler alerts.Scheduler,
	sessions SessionChecker,
) *NotificationService {
	if scheduler == nil {
		scheduler = alerts.Discard
	}
	return &NotificationService{
		repo:     repo,
		resolver: resolver,
		feed:     feed,
		alerts:   scheduler,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type envelope struct {
	kind    constants.NotificationType
	title   string
	body    string
	payload model.NotificationPayload
}

// recipient is either a profile id still to translate or an account id.
type recipient struct {
	profileID string
	accountID string
}

func profiles(ids ...string) []recipient {
	out := make([]recipient, 0, len(ids))
	for _, id := range ids {
		out = append(out, recipient{profileID: id})
	}
	return out
}

func (s *NotificationService) NotifyNewTaskPosted(
	ctx context.Context,
	taskID, title, posterName string,
	candidateTaskerProfileIDs []string,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationTask,
		title:   "New task available",
		body:    fmt.Sprintf("%s posted %q", posterName, title),
		payload: model.NewTaskPayload(constants.ActionNewTask, taskID, constants.StatusOpen),
	}, profiles(candidateTaskerProfileIDs...))
}

func (s *NotificationService) NotifyApplicationReceived(
	ctx context.Context,
	taskID, title, ownerProfileID, applicantName, applicationID string,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationApplication,
		title:   "New application",
		body:    fmt.Sprintf("%s applied to %q", applicantName, title),
		payload: model.NewApplicationPayload(constants.ActionApplicationReceived, taskID, applicationID),
	}, profiles(ownerProfileID))
}

func (s *NotificationService) NotifyApplicationAccepted(
	ctx context.Context,
	taskID, title, applicantProfileID, ownerName string,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationApplication,
		title:   "Application accepted",
		body:    fmt.Sprintf("%s accepted your application for %q", ownerName, title),
		payload: model.NewApplicationPayload(constants.ActionApplicationAccepted, taskID, ""),
	}, profiles(applicantProfileID))
}

func (s *NotificationService) NotifyApplicationRejected(
	ctx context.Context,
	taskID, title, applicantProfileID, ownerName string,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationApplication,
		title:   "Application not selected",
		body:    fmt.Sprintf("%s chose another tasker for %q", ownerName, title),
		payload: model.NewApplicationPayload(constants.ActionApplicationRejected, taskID, ""),
	}, profiles(applicantProfileID))
}

func (s *NotificationService) NotifyStatusChanged(
	ctx context.Context,
	taskID, title, counterpartProfileID string,
	newStatus constants.TaskStatus,
) {
	s.fanOut(ctx, envelope{
		kind:    notificationTypeForStatus(newStatus),
		title:   "Task updated",
		body:    fmt.Sprintf("%q is now %s", title, newStatus.Label()),
		payload: model.NewTaskPayload(constants.ActionStatusChanged, taskID, newStatus),
	}, profiles(counterpartProfileID))
}

func (s *NotificationService) NotifyNewMessage(
	ctx context.Context,
	chatID, senderProfileID, recipientProfileID, senderName, bodyPreview string,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationMessage,
		title:   "New message from " + senderName,
		body:    preview(bodyPreview),
		payload: model.NewMessagePayload(chatID, senderProfileID),
	}, profiles(recipientProfileID))
}

// NotifyPaymentRequired takes the payer's account id directly.
func (s *NotificationService) NotifyPaymentRequired(
	ctx context.Context,
	taskID, title, payerAccountID string,
	amount float64,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationPayment,
		title:   "Payment required",
		body:    fmt.Sprintf("Payment of $%.2f is due for %q", amount, title),
		payload: model.NewPaymentPayload(constants.ActionPaymentRequired, taskID, amount),
	}, []recipient{{accountID: payerAccountID}})
}

func (s *NotificationService) NotifyPaymentReady(
	ctx context.Context,
	taskID, title, payeeProfileID string,
	amount float64,
) {
	s.fanOut(ctx, envelope{
		kind:    constants.NotificationPayment,
		title:   "Payment released",
		body:    fmt.Sprintf("$%.2f for %q is ready for payout", amount, title),
		payload: model.NewPaymentPayload(constants.ActionPaymentReady, taskID, amount),
	}, profiles(payeeProfileID))
}

func notificationTypeForStatus(status constants.TaskStatus) constants.NotificationType {
	switch status {
	case constants.StatusAssigned, constants.StatusInProgress, constants.StatusCompleted:
		return constants.NotificationBooking
	case constants.StatusDisputed, constants.StatusClosed:
		return constants.NotificationSystem
	default:
		return constants.NotificationTask
	}
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= messagePreviewLength {
		return body
	}
	return string(runes[:messagePreviewLength-3]) + "..."
}

// fanOut delivers env to every recipient independently. A recipient that
// cannot be resolved or written is logged and skipped.
func (s *NotificationService) fanOut(ctx context.Context, env envelope, targets []recipient) {
	if err := env.payload.Validate(); err != nil {
		log.Printf("notify: %s: %v", env.payload.Action, err)
		return
	}

	var pending []string
	accounts := make([]string, 0, len(targets))
	for _, t := range targets {
		switch {
		case t.accountID != "":
			accounts = append(accounts, t.accountID)
		case t.profileID != "":
			pending = append(pending, t.profileID)
		}
	}

	for _, res := range s.resolver.ResolveMany(ctx, pending) {
		if res.Err != nil {
			log.Printf("notify: %s: skipping profile %s: %v", env.payload.Action, res.ProfileID, res.Err)
			continue
		}
		accounts = append(accounts, res.AccountID)
	}

	alertsOn := s.sessions != nil && s.sessions.IsActive(originFrom(ctx))

	seen := make(map[string]struct{}, len(accounts))
	for _, accountID := range accounts {
		if _, dup := seen[accountID]; dup {
			continue
		}
		seen[accountID] = struct{}{}
		s.deliver(ctx, env, accountID, alertsOn)
	}
}

func (s *NotificationService) deliver(ctx context.Context, env envelope, accountID string, alert bool) {
	n := &model.Notification{
		RecipientID: accountID,
		Title:       env.title,
		Message:     env.body,
		Type:        env.kind,
		Payload:     env.payload,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notify: %s: insert for account %s failed: %v", env.payload.Action, accountID, err)
		return
	}

	s.publish(ctx, realtime.Event{
		Kind:         realtime.EventNotificationCreated,
		AccountID:    accountID,
		Notification: n,
	})
	s.publishUnreadCount(ctx, accountID)

	if !alert {
		return
	}
	err := s.alerts.Schedule(ctx, alerts.Alert{
		RecipientID: accountID,
		Title:       n.Title,
		Body:        n.Message,
		Payload:     n.Payload,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		log.Printf("notify: %s: alert for account %s failed: %v", env.payload.Action, accountID, err)
	}
}

func (s *NotificationService) publish(ctx context.Context, ev realtime.Event) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, ev); err != nil {
		log.Printf("notify: publish %s for account %s failed: %v", ev.Kind, ev.AccountID, err)
	}
}

func (s *NotificationService) publishUnreadCount(ctx context.Context, accountID string) {
	count, err := s.repo.CountUnread(ctx, accountID)
	if err != nil {
		log.Printf("notify: unread count for account %s failed: %v", accountID, err)
		return
	}
	s.publish(ctx, realtime.Event{
		Kind:        realtime.EventUnreadCount,
		AccountID:   accountID,
		UnreadCount: count,
	})
}

func (s *NotificationService) List(ctx context.Context, accountID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		return nil, apperrors.ErrInvalidLimit
	}
	out, err := s.repo.ListForRecipient(ctx, accountID, unreadOnly, limit)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return out, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, accountID string) (int64, error) {
	count, err := s.repo.CountUnread(ctx, accountID)
	if err != nil {
		return 0, apperrors.StorageError(err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, accountID, notificationID string) error {
	if err := s.repo.MarkRead(ctx, notificationID, accountID, s.now()); err != nil {
		return notFoundOr(err, apperrors.ErrNotificationNotFound)
	}
	s.publishUnreadCount(ctx, accountID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, accountID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, accountID, s.now())
	if err != nil {
		return 0, apperrors.StorageError(err)
	}
	s.publishUnreadCount(ctx, accountID)
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, accountID, notificationID string) error {
	if err := s.repo.Delete(ctx, notificationID, accountID); err != nil {
		return notFoundOr(err, apperrors.ErrNotificationNotFound)
	}
	s.publishUnreadCount(ctx, accountID)
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, accountID string) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, accountID)
	if err != nil {
		return 0, apperrors.StorageError(err)
	}
	s.publishUnreadCount(ctx, accountID)
	return n, nil
}

// notFoundOr maps the repository's not-found error to notFound and wraps
// anything else as a storage failure.
func notFoundOr(err error, notFound *apperrors.Exception) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperrors.StorageError(err)
}
