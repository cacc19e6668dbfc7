package services

import (
	"context"
	"errors"
	"log"
	"time"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
	repository "task-market.com/task-market/internal/repositories"
)

// staleClaim is how long a claimed event may stay unfinished before the
// requeue loop hands it to another worker.
const staleClaim = 5 * time.Minute

// OutboxProcessor runs the notification fan-out for committed outbox events.
type OutboxProcessor struct {
	outbox   *repository.OutboxRepository
	notifier *NotificationService
	now      func() time.Time
}

func NewOutboxProcessor(outbox *repository.OutboxRepository, notifier *NotificationService) *OutboxProcessor {
	return &OutboxProcessor{
		outbox:   outbox,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Process claims one event, fans it out and marks it done. An event that
// is already done, or that another worker claimed within staleClaim, is
// skipped.
func (p *OutboxProcessor) Process(ctx context.Context, eventID string) error {
	row, err := p.outbox.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrOutboxEventNotFound
		}
		return apperrors.StorageError(err)
	}
	if row.Status == constants.OutboxDone {
		return nil
	}

	if err := p.outbox.Claim(ctx, row, p.now(), staleClaim); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil
		}
		return apperrors.StorageError(err)
	}

	p.dispatch(WithOrigin(ctx, row.Event.ActorAccountID), row.Kind, row.Event)

	if err := p.outbox.MarkDone(ctx, row, p.now()); err != nil {
		return apperrors.StorageError(err)
	}
	return nil
}

// DrainPending processes up to limit waiting events in creation order and
// returns how many it handled.
func (p *OutboxProcessor) DrainPending(ctx context.Context, limit int) (int, error) {
	rows, err := p.outbox.ListPending(ctx, limit, staleClaim)
	if err != nil {
		return 0, apperrors.StorageError(err)
	}

	handled := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return handled, err
		}
		if err := p.Process(ctx, row.ID); err != nil {
			log.Printf("outbox: event %s: %v", row.ID, err)
			continue
		}
		handled++
	}
	return handled, nil
}

func (p *OutboxProcessor) dispatch(ctx context.Context, kind constants.OutboxKind, ev model.DomainEvent) {
	n := p.notifier
	switch kind {
	case constants.OutboxTaskPosted:
		n.NotifyNewTaskPosted(ctx, ev.TaskID, ev.TaskTitle, ev.ActorName, ev.Recipients)

	case constants.OutboxApplicationReceived:
		for _, owner := range ev.Recipients {
			n.NotifyApplicationReceived(ctx, ev.TaskID, ev.TaskTitle, owner, ev.ActorName, ev.ApplicationID)
		}

	case constants.OutboxApplicationAccepted:
		for _, applicant := range ev.Recipients {
			n.NotifyApplicationAccepted(ctx, ev.TaskID, ev.TaskTitle, applicant, ev.ActorName)
		}
		for _, applicant := range ev.Rejected {
			n.NotifyApplicationRejected(ctx, ev.TaskID, ev.TaskTitle, applicant, ev.ActorName)
		}

	case constants.OutboxApplicationRejected:
		for _, applicant := range ev.Recipients {
			n.NotifyApplicationRejected(ctx, ev.TaskID, ev.TaskTitle, applicant, ev.ActorName)
		}

	case constants.OutboxStatusChanged:
		for _, party := range ev.Recipients {
			n.NotifyStatusChanged(ctx, ev.TaskID, ev.TaskTitle, party, ev.Status)
		}

	default:
		log.Printf("outbox: unknown event kind %q for task %s", kind, ev.TaskID)
	}
}

// InlineDispatcher processes each event on the caller's goroutine.
type InlineDispatcher struct {
	Processor *OutboxProcessor
}

func (d InlineDispatcher) Enqueue(eventID string) bool {
	if err := d.Processor.Process(context.Background(), eventID); err != nil {
		log.Printf("outbox: event %s: %v", eventID, err)
		return false
	}
	return true
}
