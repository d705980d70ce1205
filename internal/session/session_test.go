package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/domain"
)

func recv(t *testing.T, ch <-chan *domain.User) *domain.User {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(time.Second):
		t.Fatal("no session notification")
		return nil
	}
}

func TestSessionSetAndClear(t *testing.T) {
	s := New()
	assert.False(t, s.Authenticated())

	u := &domain.User{ID: uuid.New(), Name: "Wanjiku"}
	s.Set(u, "token-1")
	assert.True(t, s.Authenticated())
	assert.Equal(t, u, s.Current())
	assert.Equal(t, "token-1", s.Token())

	s.Clear()
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestSessionSubscribe(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	assert.Nil(t, recv(t, ch))

	u := &domain.User{ID: uuid.New(), Name: "Otieno"}
	s.Set(u, "t")
	assert.Equal(t, u, recv(t, ch))

	s.Clear()
	assert.Nil(t, recv(t, ch))
}

func TestSessionSubscribeLatestWins(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Subscribe(ctx)

	a := &domain.User{ID: uuid.New(), Name: "a"}
	b := &domain.User{ID: uuid.New(), Name: "b"}
	s.Set(a, "1")
	s.Set(b, "2")
	assert.Equal(t, b, recv(t, ch))
}

func TestSessionSubscribeClosesWithContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)
	recv(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 5*time.Millisecond)

	// setting after unsubscribe must not block or panic
	s.Set(&domain.User{ID: uuid.New()}, "t")
}
