package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/workflow"
)

type ApplicationService struct {
	store      *repository.Store
	dispatcher EventDispatcher
	now        func() time.Time
}

type ApplyInput struct {
	ProposedPrice float64
	Message       string
}

// AcceptResult is the state after an acceptance committed.
type AcceptResult struct {
	Task        *model.Task
	Application *model.TaskApplication
	Rejected    []model.TaskApplication
}

func NewApplicationService(store *repository.Store, dispatcher EventDispatcher) *ApplicationService {
	return &ApplicationService{
		store:      store,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Apply records actor's bid on an open task and tells the owner.
func (s *ApplicationService) Apply(
	ctx context.Context,
	taskID string,
	actor workflow.Actor,
	in ApplyInput,
) (*model.TaskApplication, error) {
	task, err := s.findTask(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if actor.Role != constants.RoleTasker || task.IsOwner(actor.ProfileID) {
		return nil, apperrors.ErrUnauthorized
	}
	if task.Status != constants.StatusOpen {
		return nil, apperrors.ErrTaskNotOpen
	}

	applied, err := s.HasApplied(ctx, taskID, actor.ProfileID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, apperrors.ErrAlreadyApplied
	}

	now := s.now()
	app := &model.TaskApplication{
		TaskID:        task.ID,
		TaskerID:      actor.ProfileID,
		ProposedPrice: in.ProposedPrice,
		Message:       strings.TrimSpace(in.Message),
		Status:        constants.ApplicationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var eventID string
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Applications.Create(ctx, app); err != nil {
			return err
		}
		ev, err := tx.Outbox.Create(ctx, constants.OutboxApplicationReceived, model.DomainEvent{
			TaskID:         task.ID,
			TaskTitle:      task.Title,
			ApplicationID:  app.ID,
			ActorProfileID: actor.ProfileID,
			ActorAccountID: actor.AccountID,
			ActorName:      actor.Name,
			Recipients:     []string{task.CustomerID},
		})
		if err != nil {
			return err
		}
		eventID = ev.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.StorageError(err)
	}

	s.dispatch(eventID)
	return app, nil
}

// HasApplied reports whether taskerID holds a live (pending or accepted)
// application on taskID.
func (s *ApplicationService) HasApplied(ctx context.Context, taskID, taskerID string) (bool, error) {
	app, err := s.store.Applications.FindByTaskAndTasker(ctx, taskID, taskerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.StorageError(err)
	}
	return app.Status == constants.ApplicationPending || app.Status == constants.ApplicationAccepted, nil
}

func (s *ApplicationService) ListForTask(ctx context.Context, taskID string, actor workflow.Actor) ([]model.TaskApplication, error) {
	task, err := s.findTask(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(actor.ProfileID) && actor.Role != constants.RoleAdmin {
		return nil, apperrors.ErrUnauthorized
	}

	apps, err := s.store.Applications.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return apps, nil
}

func (s *ApplicationService) ListForTasker(ctx context.Context, actor workflow.Actor) ([]model.TaskApplication, error) {
	apps, err := s.store.Applications.ListByTasker(ctx, actor.ProfileID)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return apps, nil
}

// Accept assigns the task to the application's tasker. In one transaction
// the task moves open -> assigned with tasker_id and final_price taken from
// the application, the application becomes accepted and every other
// pending application on the task becomes rejected.
func (s *ApplicationService) Accept(ctx context.Context, applicationID string, actor workflow.Actor) (*AcceptResult, error) {
	if applicationID == "" {
		return nil, apperrors.ErrApplicationIDRequired
	}

	var (
		result  *AcceptResult
		eventID string
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		app, err := s.findApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		task, err := s.findTask(ctx, tx, app.TaskID)
		if err != nil {
			return err
		}

		if err := workflow.Check(task, constants.StatusAssigned, actor); err != nil {
			return err
		}
		if app.Status != constants.ApplicationPending {
			return apperrors.ErrApplicationClosed
		}

		now := s.now()
		workflow.Apply(task, constants.StatusAssigned, now)
		taskerID := app.TaskerID
		price := app.ProposedPrice
		task.TaskerID = &taskerID
		task.FinalPrice = &price

		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		if err := tx.Applications.Transition(ctx, app, constants.ApplicationAccepted, now); err != nil {
			return err
		}
		rejected, err := tx.Applications.RejectPendingSiblings(ctx, task.ID, app.ID, now)
		if err != nil {
			return err
		}

		rejectedIDs := make([]string, 0, len(rejected))
		for _, r := range rejected {
			rejectedIDs = append(rejectedIDs, r.TaskerID)
		}
		ev, err := tx.Outbox.Create(ctx, constants.OutboxApplicationAccepted, model.DomainEvent{
			TaskID:         task.ID,
			TaskTitle:      task.Title,
			Status:         constants.StatusAssigned,
			ApplicationID:  app.ID,
			ActorProfileID: actor.ProfileID,
			ActorAccountID: actor.AccountID,
			ActorName:      actor.Name,
			Recipients:     []string{app.TaskerID},
			Rejected:       rejectedIDs,
		})
		if err != nil {
			return err
		}

		eventID = ev.ID
		result = &AcceptResult{Task: task, Application: app, Rejected: rejected}
		return nil
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.dispatch(eventID)
	return result, nil
}

// Reject declines one pending application; only the task owner may.
func (s *ApplicationService) Reject(ctx context.Context, applicationID string, actor workflow.Actor) (*model.TaskApplication, error) {
	return s.close(ctx, applicationID, actor, constants.ApplicationRejected)
}

// Withdraw lets the applicant pull a pending application back.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID string, actor workflow.Actor) (*model.TaskApplication, error) {
	return s.close(ctx, applicationID, actor, constants.ApplicationWithdrawn)
}

func (s *ApplicationService) close(
	ctx context.Context,
	applicationID string,
	actor workflow.Actor,
	to constants.ApplicationStatus,
) (*model.TaskApplication, error) {
	if applicationID == "" {
		return nil, apperrors.ErrApplicationIDRequired
	}

	var (
		app     *model.TaskApplication
		eventID string
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		app, err = s.findApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		task, err := s.findTask(ctx, tx, app.TaskID)
		if err != nil {
			return err
		}

		switch to {
		case constants.ApplicationRejected:
			if !task.IsOwner(actor.ProfileID) {
				return apperrors.ErrUnauthorized
			}
		case constants.ApplicationWithdrawn:
			if app.TaskerID != actor.ProfileID {
				return apperrors.ErrUnauthorized
			}
		}
		if app.Status != constants.ApplicationPending {
			return apperrors.ErrApplicationClosed
		}

		if err := tx.Applications.Transition(ctx, app, to, s.now()); err != nil {
			return err
		}
		if to != constants.ApplicationRejected {
			return nil
		}

		ev, err := tx.Outbox.Create(ctx, constants.OutboxApplicationRejected, model.DomainEvent{
			TaskID:         task.ID,
			TaskTitle:      task.Title,
			ApplicationID:  app.ID,
			ActorProfileID: actor.ProfileID,
			ActorAccountID: actor.AccountID,
			ActorName:      actor.Name,
			Recipients:     []string{app.TaskerID},
		})
		if err != nil {
			return err
		}
		eventID = ev.ID
		return nil
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.dispatch(eventID)
	return app, nil
}

func (s *ApplicationService) findTask(ctx context.Context, store *repository.Store, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	task, err := store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrTaskNotFound)
	}
	return task, nil
}

func (s *ApplicationService) findApplication(ctx context.Context, store *repository.Store, id string) (*model.TaskApplication, error) {
	app, err := store.Applications.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrApplicationNotFound)
	}
	return app, nil
}

func (s *ApplicationService) mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrOptimisticLock):
		return apperrors.ErrOptimisticLock
	case errors.Is(err, repository.ErrStatusChanged):
		return apperrors.ErrApplicationClosed
	default:
		return apperrors.StorageError(err)
	}
}

func (s *ApplicationService) dispatch(eventID string) {
	if eventID == "" || s.dispatcher == nil {
		return
	}
	s.dispatcher.Enqueue(eventID)
}
