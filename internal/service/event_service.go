package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/techLii/chatobi/internal/domain"
)

// EventPageSize is how many events an events view starts with.
const EventPageSize = 50

// EventService provides constituency event services.
type EventService struct {
	eventRepo IEventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo IEventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// CreateEvent schedules an event in a constituency.
func (s *EventService) CreateEvent(ctx context.Context, creator *domain.User, constituency string, in domain.EventInput) (*domain.Event, error) {
	if creator == nil {
		return nil, domain.ErrAuthRequired
	}
	if _, ok := domain.LookupConstituency(constituency); !ok {
		return nil, fmt.Errorf("constituency %q: %w", constituency, domain.ErrNotFound)
	}
	event, err := domain.NewEvent(creator, constituency, in)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.CreateEvent(ctx, event); err != nil {
		return nil, domain.NetworkError("create event", err)
	}
	return event, nil
}

// ListEvents returns the events of a constituency by start time.
func (s *EventService) ListEvents(ctx context.Context, constituency string) ([]domain.Event, error) {
	if _, ok := domain.LookupConstituency(constituency); !ok {
		return nil, fmt.Errorf("constituency %q: %w", constituency, domain.ErrNotFound)
	}
	events, err := s.eventRepo.ListEventsByConstituency(ctx, constituency, EventPageSize)
	if err != nil {
		return nil, domain.NetworkError("list events", err)
	}
	return deref(events), nil
}

// DeleteEvent removes an event. Any signed in user may delete any event; the
// creator is recorded but not checked.
func (s *EventService) DeleteEvent(ctx context.Context, user *domain.User, eventID string) error {
	if user == nil {
		return domain.ErrAuthRequired
	}
	if _, err := primitive.ObjectIDFromHex(eventID); err != nil {
		return domain.Invalid("event_id", "is malformed")
	}
	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return domain.NetworkError("delete event", err)
	}
	return nil
}
