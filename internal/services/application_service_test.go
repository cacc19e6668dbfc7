package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

func TestApplicationService_AcceptAssignsTaskAndRejectsSiblings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.person(t, "Dana Owner", constants.RoleCustomer)
	taskerA := f.person(t, "Alex", constants.RoleTasker)
	taskerB := f.person(t, "Blair", constants.RoleTasker)
	taskerC := f.person(t, "Casey", constants.RoleTasker)
	task := f.openTask(t, owner, "Assemble bookshelf")

	appA, err := f.apps.Apply(ctx, task.ID, taskerA, ApplyInput{ProposedPrice: 500, Message: "Can do today"})
	require.NoError(t, err)
	appB, err := f.apps.Apply(ctx, task.ID, taskerB, ApplyInput{ProposedPrice: 450})
	require.NoError(t, err)
	appC, err := f.apps.Apply(ctx, task.ID, taskerC, ApplyInput{ProposedPrice: 550})
	require.NoError(t, err)

	result, err := f.apps.Accept(ctx, appA.ID, owner)
	require.NoError(t, err)
	assert.Len(t, result.Rejected, 2)

	stored := f.reloadTask(t, task.ID)
	assert.Equal(t, constants.StatusAssigned, stored.Status)
	require.NotNil(t, stored.TaskerID)
	assert.Equal(t, taskerA.ProfileID, *stored.TaskerID)
	require.NotNil(t, stored.FinalPrice)
	assert.Equal(t, 500.0, *stored.FinalPrice)
	assert.NotNil(t, stored.AssignedAt)

	assert.Equal(t, constants.ApplicationAccepted, f.reloadApplication(t, appA.ID).Status)
	assert.Equal(t, constants.ApplicationRejected, f.reloadApplication(t, appB.ID).Status)
	assert.Equal(t, constants.ApplicationRejected, f.reloadApplication(t, appC.ID).Status)

	accepted := withAction(f.inbox(t, taskerA), constants.ActionApplicationAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, constants.NotificationApplication, accepted[0].Type)
	assert.Equal(t, task.ID, accepted[0].Payload.TaskID())
	assert.Contains(t, accepted[0].Message, "Dana Owner")

	for _, loser := range []struct {
		name  string
		actor string
	}{{"B", taskerB.AccountID}, {"C", taskerC.AccountID}} {
		ns, err := f.store.Notifications.ListForRecipient(ctx, loser.actor, false, 0)
		require.NoError(t, err)
		assert.Len(t, withAction(ns, constants.ActionApplicationRejected), 1, "tasker %s", loser.name)
	}

	assert.Len(t, withAction(f.inbox(t, owner), constants.ActionApplicationReceived), 3)
}

func TestApplicationService_AcceptRollsBackOnPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.person(t, "Owner", constants.RoleCustomer)
	taskerA := f.person(t, "A", constants.RoleTasker)
	taskerB := f.person(t, "B", constants.RoleTasker)
	task := f.openTask(t, owner, "Paint fence")

	appA, err := f.apps.Apply(ctx, task.ID, taskerA, ApplyInput{ProposedPrice: 300})
	require.NoError(t, err)
	appB, err := f.apps.Apply(ctx, task.ID, taskerB, ApplyInput{ProposedPrice: 320})
	require.NoError(t, err)

	// Fail the sibling rejection after the task row was already updated.
	err = f.db.Callback().Update().Before("gorm:update").Register("test:fail_sibling_rejection", func(tx *gorm.DB) {
		if tx.Statement.Table != "task_applications" {
			return
		}
		if m, ok := tx.Statement.Dest.(map[string]interface{}); ok && m["status"] == constants.ApplicationRejected {
			_ = tx.AddError(errInjected)
		}
	})
	require.NoError(t, err)

	_, err = f.apps.Accept(ctx, appA.ID, owner)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	stored := f.reloadTask(t, task.ID)
	assert.Equal(t, constants.StatusOpen, stored.Status)
	assert.Nil(t, stored.TaskerID)
	assert.Nil(t, stored.FinalPrice)
	assert.Equal(t, constants.ApplicationPending, f.reloadApplication(t, appA.ID).Status)
	assert.Equal(t, constants.ApplicationPending, f.reloadApplication(t, appB.ID).Status)
	assert.Empty(t, withAction(f.inbox(t, taskerA), constants.ActionApplicationAccepted))
}

func TestApplicationService_AcceptGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.person(t, "Owner", constants.RoleCustomer)
	stranger := f.person(t, "Stranger", constants.RoleCustomer)
	tasker := f.person(t, "Tasker", constants.RoleTasker)
	other := f.person(t, "Other", constants.RoleTasker)
	task := f.openTask(t, owner, "Mow lawn")

	app, err := f.apps.Apply(ctx, task.ID, tasker, ApplyInput{ProposedPrice: 80})
	require.NoError(t, err)
	late, err := f.apps.Apply(ctx, task.ID, other, ApplyInput{ProposedPrice: 70})
	require.NoError(t, err)

	_, err = f.apps.Accept(ctx, app.ID, stranger)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.apps.Accept(ctx, "missing", owner)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	_, err = f.apps.Accept(ctx, app.ID, owner)
	require.NoError(t, err)

	// The task is assigned now, so no edge to assigned exists any more.
	_, err = f.apps.Accept(ctx, late.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestApplicationService_Apply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.person(t, "Owner", constants.RoleCustomer)
	tasker := f.person(t, "Tasker", constants.RoleTasker)
	task := f.openTask(t, owner, "Hang pictures")

	t.Run("owner is told about the application", func(t *testing.T) {
		app, err := f.apps.Apply(ctx, task.ID, tasker, ApplyInput{ProposedPrice: 120, Message: "  hello  "})
		require.NoError(t, err)
		assert.Equal(t, "hello", app.Message)
		assert.Equal(t, constants.ApplicationPending, app.Status)

		received := withAction(f.inbox(t, owner), constants.ActionApplicationReceived)
		require.Len(t, received, 1)
		require.NotNil(t, received[0].Payload.Application)
		assert.Equal(t, app.ID, received[0].Payload.Application.ApplicationID)
	})

	t.Run("second application is refused", func(t *testing.T) {
		_, err := f.apps.Apply(ctx, task.ID, tasker, ApplyInput{ProposedPrice: 100})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

		applied, err := f.apps.HasApplied(ctx, task.ID, tasker.ProfileID)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("customers cannot apply", func(t *testing.T) {
		_, err := f.apps.Apply(ctx, task.ID, owner, ApplyInput{ProposedPrice: 100})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("draft tasks take no applications", func(t *testing.T) {
		draft, err := f.tasks.CreateTask(ctx, owner, CreateTaskInput{Title: "Draft", Description: "d", Budget: 10})
		require.NoError(t, err)
		_, err = f.apps.Apply(ctx, draft.ID, tasker, ApplyInput{ProposedPrice: 10})
		assert.ErrorIs(t, err, apperrors.ErrTaskNotOpen)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := f.apps.Apply(ctx, "nope", tasker, ApplyInput{ProposedPrice: 10})
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestApplicationService_RejectAndWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.person(t, "Owner", constants.RoleCustomer)
	taskerA := f.person(t, "A", constants.RoleTasker)
	taskerB := f.person(t, "B", constants.RoleTasker)
	task := f.openTask(t, owner, "Fix sink")

	appA, err := f.apps.Apply(ctx, task.ID, taskerA, ApplyInput{ProposedPrice: 90})
	require.NoError(t, err)
	appB, err := f.apps.Apply(ctx, task.ID, taskerB, ApplyInput{ProposedPrice: 95})
	require.NoError(t, err)

	_, err = f.apps.Reject(ctx, appA.ID, taskerB)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	rejected, err := f.apps.Reject(ctx, appA.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, constants.ApplicationRejected, rejected.Status)
	assert.Len(t, withAction(f.inbox(t, taskerA), constants.ActionApplicationRejected), 1)

	_, err = f.apps.Reject(ctx, appA.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrApplicationClosed)

	_, err = f.apps.Withdraw(ctx, appB.ID, taskerA)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	withdrawn, err := f.apps.Withdraw(ctx, appB.ID, taskerB)
	require.NoError(t, err)
	assert.Equal(t, constants.ApplicationWithdrawn, withdrawn.Status)

	applied, err := f.apps.HasApplied(ctx, task.ID, taskerB.ProfileID)
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = f.apps.Accept(ctx, appB.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrApplicationClosed)
	assert.Equal(t, constants.StatusOpen, f.reloadTask(t, task.ID).Status)
}

func TestApplicationService_Listing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.person(t, "Owner", constants.RoleCustomer)
	tasker := f.person(t, "Tasker", constants.RoleTasker)
	first := f.openTask(t, owner, "First")
	second := f.openTask(t, owner, "Second")

	for _, task := range []*model.Task{first, second} {
		_, err := f.apps.Apply(ctx, task.ID, tasker, ApplyInput{ProposedPrice: 10})
		require.NoError(t, err)
	}

	apps, err := f.apps.ListForTask(ctx, first.ID, owner)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	_, err = f.apps.ListForTask(ctx, first.ID, tasker)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	mine, err := f.apps.ListForTasker(ctx, tasker)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
