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

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProfileService(memory.NewStore())
	user, err := domain.NewUser("Amina", "amina@example.com", "password1")
	require.NoError(t, err)

	none, err := svc.GetProfile(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, none)

	age := 40
	first, err := svc.SaveProfile(ctx, user, domain.ProfileInput{Age: &age, Sex: "Female"})
	require.NoError(t, err)
	second, err := svc.SaveProfile(ctx, user, domain.ProfileInput{Location: "South B"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := svc.GetProfile(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, got.Age)
	assert.Equal(t, "South B", got.Location)
}

func TestSaveProfileRejections(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProfileService(memory.NewStore())
	user, err := domain.NewUser("Amina", "amina@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.SaveProfile(ctx, nil, domain.ProfileInput{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	bad := 0
	_, err = svc.SaveProfile(ctx, user, domain.ProfileInput{Age: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.SaveProfile(ctx, user, domain.ProfileInput{Sex: "Unknown"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
