// Package session holds the current user of a connection (server side) or of
// the process (CLI side). Components that need the user subscribe to changes
// instead of asking the identity provider again.
package session

import (
	"context"
	"sync"

	"github.com/techLii/chatobi/internal/domain"
)

// Session is the current authenticated user, if any.
type Session struct {
	mu    sync.RWMutex
	user  *domain.User
	token string
	subs  map[chan *domain.User]struct{}
}

// New returns an unauthenticated session.
func New() *Session {
	return &Session{subs: make(map[chan *domain.User]struct{})}
}

// Current returns the signed in user or nil.
func (s *Session) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the identity provider token of the current login.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.Current() != nil
}

// Set records a successful login and notifies subscribers.
func (s *Session) Set(user *domain.User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.broadcast(user)
	s.mu.Unlock()
}

// Clear forgets the current user and notifies subscribers.
func (s *Session) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.broadcast(nil)
	s.mu.Unlock()
}

// Subscribe returns a channel that receives the current user right away and
// again after every change. Slow readers only see the latest value. The
// channel is closed when ctx is done.
func (s *Session) Subscribe(ctx context.Context) <-chan *domain.User {
	ch := make(chan *domain.User, 1)
	s.mu.Lock()
	ch <- s.user
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// broadcast replaces any unread value with user. Callers hold mu.
func (s *Session) broadcast(user *domain.User) {
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- user
	}
}
