package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
)

func newMessage(scope, author, body string, at time.Time) *domain.Message {
	return &domain.Message{
		Body:       body,
		AuthorID:   author,
		AuthorName: author,
		Scope:      scope,
		CreatedAt:  at,
		Upvoters:   []string{},
		Downvoters: []string{},
	}
}

func receive[T any](t *testing.T, ch <-chan live.Change[T]) live.Change[T] {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("no change received")
		return live.Change[T]{}
	}
}

func TestListMessagesNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateMessage(ctx, newMessage("westlands", "a", string(rune('a'+i)), base.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, s.CreateMessage(ctx, newMessage("kibra", "a", "elsewhere", base)))

	got, err := s.ListMessagesByConstituency(ctx, "westlands", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e", got[0].Body)
	assert.Equal(t, "c", got[2].Body)
}

func TestCreateMessagePublishesCreate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore()
	ch, err := s.WatchMessages(ctx)
	require.NoError(t, err)

	m := newMessage("westlands", "a", "hello", time.Now())
	require.NoError(t, s.CreateMessage(ctx, m))
	assert.False(t, m.ID.IsZero())

	c := receive(t, ch)
	assert.Equal(t, live.Create, c.Kind)
	assert.Equal(t, m.ID, c.Doc.ID)
}

func TestSetVoteChangesOnlyThatVoter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore()
	m := newMessage("westlands", "a", "hello", time.Now())
	require.NoError(t, s.CreateMessage(ctx, m))
	ch, err := s.WatchMessages(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SetVote(ctx, m.DocID(), "u1", domain.VoteUp))
	require.NoError(t, s.SetVote(ctx, m.DocID(), "u2", domain.VoteUp))
	require.NoError(t, s.SetVote(ctx, m.DocID(), "u1", domain.VoteDown))

	got, err := s.ListMessagesByConstituency(ctx, "westlands", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"u2"}, got[0].Upvoters)
	assert.Equal(t, []string{"u1"}, got[0].Downvoters)

	c := receive(t, ch)
	assert.Equal(t, live.Update, c.Kind)
}

func TestSetVoteUnknownMessage(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.SetVote(context.Background(), "nope", "u1", domain.VoteUp), domain.ErrNotFound)
	assert.ErrorIs(t, s.SetVote(context.Background(), "65f000000000000000000000", "u1", domain.VoteUp), domain.ErrNotFound)
}

func TestDeleteEventPublishesTombstone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore()
	e := &domain.Event{Title: "Cleanup", Scope: "kibra", StartTime: time.Now().Add(time.Hour)}
	require.NoError(t, s.CreateEvent(ctx, e))
	ch, err := s.WatchEvents(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, e.DocID()))
	c := receive(t, ch)
	assert.Equal(t, live.Delete, c.Kind)
	assert.Equal(t, e.ID, c.Doc.ID)

	assert.ErrorIs(t, s.DeleteEvent(ctx, e.DocID()), domain.ErrNotFound)
}

func TestListEventsByStartTime(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	require.NoError(t, s.CreateEvent(ctx, &domain.Event{Title: "later", Scope: "kibra", StartTime: now.Add(2 * time.Hour)}))
	require.NoError(t, s.CreateEvent(ctx, &domain.Event{Title: "sooner", Scope: "kibra", StartTime: now.Add(time.Hour)}))

	got, err := s.ListEventsByConstituency(ctx, "kibra", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sooner", got[0].Title)
}

func TestProfileUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	first, err := s.UpsertProfile(ctx, &domain.Profile{UserID: "u1", Sex: "Male"})
	require.NoError(t, err)
	second, err := s.UpsertProfile(ctx, &domain.Profile{UserID: "u1", Sex: "Other"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.GetProfileByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Other", got.Sex)

	missing, err := s.GetProfileByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u := &domain.User{ID: uuid.New(), Name: "Amina", Email: "amina@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.ErrorIs(t, s.CreateUser(ctx, &domain.User{ID: uuid.New(), Email: u.Email}), domain.ErrConflict)

	byEmail, err := s.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	sess := domain.NewSession(u.ID, time.Hour)
	require.NoError(t, s.CreateSession(ctx, sess))
	got, err := s.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	require.NoError(t, s.DeleteSession(ctx, sess.Token))
	got, err = s.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFailingStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.SetFailing(true)

	_, err := s.ListMessagesByConstituency(ctx, "kibra", 10)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = s.WatchMessages(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)

	s.SetFailing(false)
	_, err = s.ListMessagesByConstituency(ctx, "kibra", 10)
	assert.NoError(t, err)
}

func TestSubscriptionClosesWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewStore()
	ch, err := s.WatchDirectMessages(ctx)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
