// Package memory is an in-process document store, change feed and identity
// store. It backs tests and single-process development runs.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
	"github.com/techLii/chatobi/internal/vote"
)

// ErrUnavailable is returned by every call while the store is failing.
var ErrUnavailable = errors.New("memory store unavailable")

// Store holds every collection in memory.
type Store struct {
	mu       sync.RWMutex
	failing  bool
	messages map[primitive.ObjectID]*domain.Message
	events   map[primitive.ObjectID]*domain.Event
	dms      map[primitive.ObjectID]*domain.DirectMessage
	profiles map[string]*domain.Profile
	users    map[uuid.UUID]*domain.User
	sessions map[string]*domain.Session

	messageFeed *feed[domain.Message]
	eventFeed   *feed[domain.Event]
	dmFeed      *feed[domain.DirectMessage]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		messages:    make(map[primitive.ObjectID]*domain.Message),
		events:      make(map[primitive.ObjectID]*domain.Event),
		dms:         make(map[primitive.ObjectID]*domain.DirectMessage),
		profiles:    make(map[string]*domain.Profile),
		users:       make(map[uuid.UUID]*domain.User),
		sessions:    make(map[string]*domain.Session),
		messageFeed: newFeed[domain.Message]("messages"),
		eventFeed:   newFeed[domain.Event]("events"),
		dmFeed:      newFeed[domain.DirectMessage]("dms"),
	}
}

// SetFailing makes every following call fail with ErrUnavailable until reset.
func (s *Store) SetFailing(failing bool) {
	s.mu.Lock()
	s.failing = failing
	s.mu.Unlock()
}

func (s *Store) check() error {
	if s.failing {
		return ErrUnavailable
	}
	return nil
}

// --- messages ---

func (s *Store) CreateMessage(_ context.Context, message *domain.Message) error {
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	stored := message.Clone()
	s.messages[message.ID] = &stored
	s.mu.Unlock()

	s.messageFeed.publish(live.Create, stored.Clone())
	return nil
}

func (s *Store) ListMessagesByConstituency(_ context.Context, constituency string, limit int64) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	var out []*domain.Message
	for _, m := range s.messages {
		if m.Scope == constituency {
			c := m.Clone()
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return limitTo(out, limit), nil
}

func (s *Store) GetLatestMessageByAuthor(_ context.Context, authorID string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	var latest *domain.Message
	for _, m := range s.messages {
		if m.AuthorID == authorID && (latest == nil || m.CreatedAt.After(latest.CreatedAt)) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := latest.Clone()
	return &c, nil
}

func (s *Store) SetVote(_ context.Context, messageID, voterID string, dir domain.VoteDirection) error {
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return domain.ErrNotFound
	}
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	m, ok := s.messages[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	updated := vote.Set(*m, voterID, dir)
	s.messages[id] = &updated
	s.mu.Unlock()

	s.messageFeed.publish(live.Update, updated.Clone())
	return nil
}

func (s *Store) WatchMessages(ctx context.Context) (<-chan live.Change[domain.Message], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.messageFeed.subscribe(ctx), nil
}

// --- events ---

func (s *Store) CreateEvent(_ context.Context, event *domain.Event) error {
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	stored := *event
	s.events[event.ID] = &stored
	s.mu.Unlock()

	s.eventFeed.publish(live.Create, stored)
	return nil
}

func (s *Store) ListEventsByConstituency(_ context.Context, constituency string, limit int64) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	var out []*domain.Event
	for _, e := range s.events {
		if e.Scope == constituency {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return limitTo(out, limit), nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	e, ok := s.events[oid]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.events, oid)
	s.mu.Unlock()

	s.eventFeed.publish(live.Delete, domain.Event{ID: e.ID})
	return nil
}

func (s *Store) WatchEvents(ctx context.Context) (<-chan live.Change[domain.Event], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.eventFeed.subscribe(ctx), nil
}

// --- direct messages ---

func (s *Store) CreateDirectMessage(_ context.Context, message *domain.DirectMessage) error {
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return err
	}
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	stored := *message
	s.dms[message.ID] = &stored
	s.mu.Unlock()

	s.dmFeed.publish(live.Create, stored)
	return nil
}

func (s *Store) GetMessagesByConversationID(_ context.Context, conversationID string, limit int64) ([]*domain.DirectMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	var out []*domain.DirectMessage
	for _, m := range s.dms {
		if m.ConversationID == conversationID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return limitTo(out, limit), nil
}

func (s *Store) WatchDirectMessages(ctx context.Context) (<-chan live.Change[domain.DirectMessage], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.dmFeed.subscribe(ctx), nil
}

// --- profiles ---

func (s *Store) GetProfileByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (s *Store) UpsertProfile(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	stored := *profile
	if existing, ok := s.profiles[profile.UserID]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = primitive.NewObjectID()
	}
	s.profiles[profile.UserID] = &stored
	c := stored
	return &c, nil
}

// --- users and sessions ---

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	c := *session
	s.sessions[session.Token] = &c
	return nil
}

func (s *Store) GetSession(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	c := *sess
	return &c, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	delete(s.sessions, token)
	return nil
}

func limitTo[T any](items []T, limit int64) []T {
	if limit > 0 && int64(len(items)) > limit {
		return items[:limit]
	}
	return items
}
