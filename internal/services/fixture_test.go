package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-market.com/task-market/internal/alerts"
	"task-market.com/task-market/internal/constants"
	model "task-market.com/task-market/internal/models"
	"task-market.com/task-market/internal/realtime"
	repository "task-market.com/task-market/internal/repositories"
	"task-market.com/task-market/internal/workflow"
)

// fakeFeed is an in-memory realtime.Feed.
type fakeFeed struct {
	mu     sync.Mutex
	events []realtime.Event
	subs   map[string]map[int]func(realtime.Event)
	nextID int
	err    error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subs: make(map[string]map[int]func(realtime.Event))}
}

func (f *fakeFeed) Publish(ctx context.Context, ev realtime.Event) error {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return f.err
	}
	f.events = append(f.events, ev)
	var targets []func(realtime.Event)
	for _, fn := range f.subs[ev.AccountID] {
		targets = append(targets, fn)
	}
	f.mu.Unlock()

	for _, fn := range targets {
		fn(ev)
	}
	return nil
}

func (f *fakeFeed) Subscribe(ctx context.Context, accountID string, fn func(realtime.Event)) error {
	f.mu.Lock()
	if f.subs[accountID] == nil {
		f.subs[accountID] = make(map[int]func(realtime.Event))
	}
	id := f.nextID
	f.nextID++
	f.subs[accountID][id] = fn
	f.mu.Unlock()

	<-ctx.Done()

	f.mu.Lock()
	delete(f.subs[accountID], id)
	f.mu.Unlock()
	return nil
}

func (f *fakeFeed) subscribers(accountID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[accountID])
}

func (f *fakeFeed) published(kind realtime.EventKind, accountID string) []realtime.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []realtime.Event
	for _, ev := range f.events {
		if ev.Kind == kind && ev.AccountID == accountID {
			out = append(out, ev)
		}
	}
	return out
}

// fakeAlerts records scheduled alerts.
type fakeAlerts struct {
	mu   sync.Mutex
	sent []alerts.Alert
	err  error
}

func (a *fakeAlerts) Schedule(ctx context.Context, alert alerts.Alert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.sent = append(a.sent, alert)
	return nil
}

func (a *fakeAlerts) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sent)
}

type staticSessions map[string]bool

func (s staticSessions) IsActive(accountID string) bool { return s[accountID] }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// Every pooled connection to :memory: would be its own database.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

type fixture struct {
	db        *gorm.DB
	store     *repository.Store
	feed      *fakeFeed
	alerts    *fakeAlerts
	sessions  staticSessions
	notifier  *NotificationService
	processor *OutboxProcessor
	tasks     *TaskService
	apps      *ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	store := repository.NewStore(db)
	f := &fixture{
		db:       db,
		store:    store,
		feed:     newFakeFeed(),
		alerts:   &fakeAlerts{},
		sessions: staticSessions{},
	}

	resolver := NewIdentityResolver(store.Profiles, 4)
	f.notifier = NewNotificationService(store.Notifications, resolver, f.feed, f.alerts, f.sessions)
	f.processor = NewOutboxProcessor(store.Outbox, f.notifier)
	dispatcher := InlineDispatcher{Processor: f.processor}
	f.tasks = NewTaskService(store, dispatcher)
	f.apps = NewApplicationService(store, dispatcher)
	return f
}

// person creates a profile linked to a fresh account and returns it as an actor.
func (f *fixture) person(t *testing.T, name string, role constants.ProfileRole) workflow.Actor {
	t.Helper()
	account := "acc-" + uuid.NewString()
	p := &model.Profile{FullName: name, Role: role, AccountID: &account}
	require.NoError(t, f.store.Profiles.Create(context.Background(), p))
	return workflow.ActorFromProfile(p)
}

// unlinked creates a profile that has no account.
func (f *fixture) unlinked(t *testing.T, name string, role constants.ProfileRole) workflow.Actor {
	t.Helper()
	p := &model.Profile{FullName: name, Role: role}
	require.NoError(t, f.store.Profiles.Create(context.Background(), p))
	return workflow.ActorFromProfile(p)
}

func (f *fixture) openTask(t *testing.T, owner workflow.Actor, title string) *model.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), owner, CreateTaskInput{
		Title:       title,
		Description: "details for " + title,
		Budget:      600,
		Publish:     true,
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) inbox(t *testing.T, actor workflow.Actor) []model.Notification {
	t.Helper()
	out, err := f.store.Notifications.ListForRecipient(context.Background(), actor.AccountID, false, 0)
	require.NoError(t, err)
	return out
}

func (f *fixture) reloadTask(t *testing.T, id string) *model.Task {
	t.Helper()
	task, err := f.store.Tasks.FindByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

func (f *fixture) reloadApplication(t *testing.T, id string) *model.TaskApplication {
	t.Helper()
	app, err := f.store.Applications.FindByID(context.Background(), id)
	require.NoError(t, err)
	return app
}

func withAction(ns []model.Notification, action constants.EventAction) []model.Notification {
	var out []model.Notification
	for _, n := range ns {
		if n.Payload.Action == action {
			out = append(out, n)
		}
	}
	return out
}

var errInjected = errors.New("injected failure")
