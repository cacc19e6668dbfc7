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

const maxCandidateTaskers = 200

// EventDispatcher hands a committed outbox event to whatever drains it.
type EventDispatcher interface {
	Enqueue(eventID string) bool
}

type TaskService struct {
	store      *repository.Store
	dispatcher EventDispatcher
	now        func() time.Time
}

type CreateTaskInput struct {
	Title       string
	Description string
	Budget      float64
	CategoryID  *string
	IsUrgent    bool
	Publish     bool
}

type TransitionOptions struct {
	Reason string
}

func NewTaskService(store *repository.Store, dispatcher EventDispatcher) *TaskService {
	return &TaskService{
		store:      store,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateTask stores a new task owned by actor, as a draft or already open.
func (s *TaskService) CreateTask(ctx context.Context, actor workflow.Actor, in CreateTaskInput) (*model.Task, error) {
	if actor.ProfileID == "" || actor.Role == constants.RoleTasker {
		return nil, apperrors.ErrUnauthorized
	}

	now := s.now()
	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Status:      constants.StatusDraft,
		CustomerID:  actor.ProfileID,
		CategoryID:  in.CategoryID,
		IsUrgent:    in.IsUrgent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var eventID string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if in.Publish {
			workflow.Apply(task, constants.StatusOpen, now)
		}
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		if !in.Publish {
			return nil
		}

		ev, err := s.recordPosted(ctx, tx, task, actor)
		if err != nil {
			return err
		}
		eventID = ev.ID
		return nil
	})
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.dispatch(eventID)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	task, err := s.store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	tasks, err := s.store.Tasks.List(ctx, filter)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return tasks, nil
}

// DeleteTask removes a draft or cancelled task and its applications.
func (s *TaskService) DeleteTask(ctx context.Context, id string, actor workflow.Actor) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if !task.IsOwner(actor.ProfileID) {
		return apperrors.ErrUnauthorized
	}
	if task.Status != constants.StatusDraft && task.Status != constants.StatusCancelled {
		return apperrors.ErrTaskNotDeletable
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Applications.DeleteByTask(ctx, task.ID); err != nil {
			return err
		}
		return tx.Tasks.Delete(ctx, task.ID)
	})
	if err != nil {
		return notFoundOr(err, apperrors.ErrTaskNotFound)
	}
	return nil
}

// RequestTransition moves a task to target on behalf of actor. Invalid
// edges and wrong actors are rejected before anything is written. The
// status write and its outbox event commit together.
func (s *TaskService) RequestTransition(
	ctx context.Context,
	taskID string,
	target constants.TaskStatus,
	actor workflow.Actor,
	opts TransitionOptions,
) (*model.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Check(task, target, actor); err != nil {
		return nil, err
	}
	if target == constants.StatusAssigned {
		return nil, apperrors.ErrApplicationRequired
	}

	before := *task
	now := s.now()
	workflow.Apply(task, target, now)
	if target == constants.StatusCancelled {
		if reason := strings.TrimSpace(opts.Reason); reason != "" {
			task.CancellationReason = &reason
		}
	}

	var eventID string
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}

		var ev *model.OutboxEvent
		var err error
		if target == constants.StatusOpen {
			ev, err = s.recordPosted(ctx, tx, task, actor)
		} else {
			ev, err = tx.Outbox.Create(ctx, constants.OutboxStatusChanged, model.DomainEvent{
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				Status:         target,
				ActorProfileID: actor.ProfileID,
				ActorAccountID: actor.AccountID,
				ActorName:      actor.Name,
				Recipients:     workflow.Counterparts(&before, target, actor),
			})
		}
		if err != nil {
			return err
		}
		eventID = ev.ID
		return nil
	})
	if err != nil {
		*task = before
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, apperrors.ErrOptimisticLock
		}
		return nil, apperrors.StorageError(err)
	}

	s.dispatch(eventID)
	return task, nil
}

func (s *TaskService) recordPosted(
	ctx context.Context,
	tx *repository.Store,
	task *model.Task,
	actor workflow.Actor,
) (*model.OutboxEvent, error) {
	candidates, err := tx.Profiles.ListIDsByRole(ctx, constants.RoleTasker, task.CustomerID, maxCandidateTaskers)
	if err != nil {
		return nil, err
	}
	return tx.Outbox.Create(ctx, constants.OutboxTaskPosted, model.DomainEvent{
		TaskID:         task.ID,
		TaskTitle:      task.Title,
		Status:         constants.StatusOpen,
		ActorProfileID: actor.ProfileID,
		ActorAccountID: actor.AccountID,
		ActorName:      actor.Name,
		Recipients:     candidates,
	})
}

func (s *TaskService) dispatch(eventID string) {
	if eventID == "" || s.dispatcher == nil {
		return
	}
	s.dispatcher.Enqueue(eventID)
}
