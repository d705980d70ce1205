package service

import (
	"context"

	"github.com/techLii/chatobi/internal/domain"
)

// ProfileService provides profile services.
type ProfileService struct {
	profileRepo IProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo IProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// GetProfile returns the profile of a user or nil when none was saved yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NetworkError("get profile", err)
	}
	return profile, nil
}

// SaveProfile creates the user's profile or updates it in place.
func (s *ProfileService) SaveProfile(ctx context.Context, user *domain.User, in domain.ProfileInput) (*domain.Profile, error) {
	if user == nil {
		return nil, domain.ErrAuthRequired
	}
	profile, err := domain.NewProfile(user.ID.String(), in)
	if err != nil {
		return nil, err
	}
	saved, err := s.profileRepo.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, domain.NetworkError("save profile", err)
	}
	return saved, nil
}
