package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"task-market.com/task-market/internal/realtime"
)

var ErrSessionNotStarted = errors.New("session not started")

// Session is the per-account context object: it owns the realtime feed
// subscription and the subscriber list for one signed-in account.
type Session struct {
	feed realtime.Feed
	hub  *realtime.Hub

	mu        sync.Mutex
	accountID string
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewSession(feed realtime.Feed) *Session {
	return &Session{
		feed: feed,
		hub:  realtime.NewHub(),
	}
}

// Init binds the session to accountID and starts following its feed.
// Calling Init on a running session tears the old binding down first.
func (s *Session) Init(ctx context.Context, accountID string) {
	s.Teardown()

	feedCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	s.mu.Lock()
	s.accountID = accountID
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			err := s.feed.Subscribe(feedCtx, accountID, s.hub.Publish)
			if feedCtx.Err() != nil {
				return
			}
			log.Printf("session %s: feed subscription ended: %v", accountID, err)

			select {
			case <-feedCtx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()
}

// Teardown stops the feed and clears every subscriber.
func (s *Session) Teardown() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.accountID = ""
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.hub.Clear()
}

func (s *Session) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID
}

func (s *Session) Active() bool {
	return s.AccountID() != ""
}

func (s *Session) Subscribe(fn realtime.Subscriber) (string, error) {
	if !s.Active() {
		return "", ErrSessionNotStarted
	}
	return s.hub.Add(fn), nil
}

func (s *Session) Unsubscribe(id string) {
	s.hub.Remove(id)
}

func (s *Session) Subscribers() int {
	return s.hub.Len()
}

// SessionRegistry keeps at most one Session per account.
type SessionRegistry struct {
	feed realtime.Feed

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(feed realtime.Feed) *SessionRegistry {
	return &SessionRegistry{
		feed:     feed,
		sessions: make(map[string]*Session),
	}
}

// Attach adds fn to the session of accountID, starting the session if it
// is not running, and returns the subscriber id to pass to Release.
func (r *SessionRegistry) Attach(ctx context.Context, accountID string, fn realtime.Subscriber) (string, error) {
	if accountID == "" {
		return "", ErrSessionNotStarted
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[accountID]
	if !ok {
		s = NewSession(r.feed)
		s.Init(ctx, accountID)
		r.sessions[accountID] = s
	}
	return s.Subscribe(fn)
}

// Release drops one subscriber and ends the session once nobody listens.
func (r *SessionRegistry) Release(accountID, subscriberID string) {
	r.mu.Lock()
	s, ok := r.sessions[accountID]
	if !ok {
		r.mu.Unlock()
		return
	}
	s.Unsubscribe(subscriberID)
	if s.Subscribers() > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, accountID)
	r.mu.Unlock()

	s.Teardown()
}

func (r *SessionRegistry) IsActive(accountID string) bool {
	if accountID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[accountID]
	return ok
}

func (r *SessionRegistry) Close(accountID string) {
	r.mu.Lock()
	s, ok := r.sessions[accountID]
	delete(r.sessions, accountID)
	r.mu.Unlock()

	if ok {
		s.Teardown()
	}
}

func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Teardown()
	}
}
