package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/repository/memory"
	"github.com/techLii/chatobi/internal/service"
)

func TestDirectMessages(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewDirectMessageService(store, store)
	amina, err := domain.NewUser("Amina", "amina@example.com", "password1")
	require.NoError(t, err)
	otieno, err := domain.NewUser("Otieno", "otieno@example.com", "password1")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, amina))
	require.NoError(t, store.CreateUser(ctx, otieno))

	_, err = svc.Send(ctx, amina, otieno.ID.String(), "Hi")
	require.NoError(t, err)
	_, err = svc.Send(ctx, otieno, amina.ID.String(), "Hello")
	require.NoError(t, err)

	mine, err := svc.Conversation(ctx, amina, otieno.ID.String())
	require.NoError(t, err)
	theirs, err := svc.Conversation(ctx, otieno, amina.ID.String())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, mine, theirs)
	assert.Equal(t, "Hi", mine[0].Body)
}

func TestDirectMessageRejections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewDirectMessageService(store, store)
	amina, err := domain.NewUser("Amina", "amina@example.com", "password1")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, amina))

	_, err = svc.Send(ctx, nil, amina.ID.String(), "Hi")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	_, err = svc.Send(ctx, amina, amina.ID.String(), "Hi")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Send(ctx, amina, "not-a-uuid", "Hi")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Send(ctx, amina, "7b1c8f3e-7d7a-4a7e-9c51-0d7cf0b9e111", "Hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Conversation(ctx, nil, amina.ID.String())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}
