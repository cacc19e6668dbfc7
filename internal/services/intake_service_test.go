package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	"task-market.com/task-market/internal/workflow"
)

func TestIntakeService_MessageSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intake := NewIntakeService(f.store, f.notifier)

	alice := f.person(t, "Alice", constants.RoleCustomer)
	bob := f.person(t, "Bob", constants.RoleTasker)

	require.NoError(t, intake.MessageSent(ctx, bob, "chat-1", alice.ProfileID, " On my way "))

	got := withAction(f.inbox(t, alice), constants.ActionNewMessage)
	require.Len(t, got, 1)
	assert.Equal(t, "New message from Bob", got[0].Title)
	assert.Equal(t, "On my way", got[0].Message)
	assert.Equal(t, bob.ProfileID, got[0].Payload.Message.SenderProfileID)

	assert.ErrorIs(t, intake.MessageSent(ctx, bob, "chat-1", bob.ProfileID, "hi"), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, intake.MessageSent(ctx, bob, "chat-1", "nobody", "hi"), apperrors.ErrProfileNotFound)
}

func TestIntakeService_MessageAlertFollowsSenderSession(t *testing.T) {
	f := newFixture(t)
	intake := NewIntakeService(f.store, f.notifier)

	alice := f.person(t, "Alice", constants.RoleCustomer)
	bob := f.person(t, "Bob", constants.RoleTasker)
	f.sessions[bob.AccountID] = true

	require.NoError(t, intake.MessageSent(context.Background(), bob, "chat-1", alice.ProfileID, "hello"))
	assert.Equal(t, 1, f.alerts.count())
}

func TestIntakeService_Payment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intake := NewIntakeService(f.store, f.notifier)

	owner := f.person(t, "Owner", constants.RoleCustomer)
	tasker := f.person(t, "Tasker", constants.RoleTasker)
	admin := f.person(t, "Gateway", constants.RoleAdmin)
	task := f.openTask(t, owner, "Build shed")

	assert.ErrorIs(t, intake.Payment(ctx, admin, task.ID, PaymentReady, 10), apperrors.ErrTaskNotAssigned)

	app, err := f.apps.Apply(ctx, task.ID, tasker, ApplyInput{ProposedPrice: 400})
	require.NoError(t, err)
	_, err = f.apps.Accept(ctx, app.ID, owner)
	require.NoError(t, err)

	assert.ErrorIs(t, intake.Payment(ctx, owner, task.ID, PaymentRequired, 400), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, intake.Payment(ctx, admin, "missing", PaymentRequired, 400), apperrors.ErrTaskNotFound)
	assert.ErrorIs(t, intake.Payment(ctx, admin, task.ID, "refund", 400), apperrors.ErrInvalidPaymentEvent)

	require.NoError(t, intake.Payment(ctx, admin, task.ID, PaymentRequired, 400))
	required := withAction(f.inbox(t, owner), constants.ActionPaymentRequired)
	require.Len(t, required, 1)
	assert.Equal(t, constants.NotificationPayment, required[0].Type)
	assert.Equal(t, 400.0, required[0].Payload.Payment.Amount)

	require.NoError(t, intake.Payment(ctx, workflow.SystemActor, task.ID, PaymentReady, 380))
	ready := withAction(f.inbox(t, tasker), constants.ActionPaymentReady)
	require.Len(t, ready, 1)
	assert.Equal(t, `$380.00 for "Build shed" is ready for payout`, ready[0].Message)
}
