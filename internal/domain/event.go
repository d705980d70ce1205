package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxEventTitle       = 200
	MaxEventDescription = 5000
	MaxEventLocation    = 200
)

// Event is a community event scheduled in a constituency. Events are created
// and deleted, never updated.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Scope       string             `bson:"constituency" json:"constituency"`
	StartTime   time.Time          `bson:"date" json:"start_time"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	CreatedBy   string             `bson:"createdBy,omitempty" json:"created_by,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
}

// EventInput is the user-supplied part of an event.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	Location    string    `json:"location,omitempty"`
}

// NewEvent validates input and builds an event for scope.
func NewEvent(creator *User, scope string, in EventInput) (*Event, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	loc := strings.TrimSpace(in.Location)
	switch {
	case title == "":
		return nil, Invalid("title", "is required")
	case len([]rune(title)) > MaxEventTitle:
		return nil, Invalid("title", "is too long")
	case desc == "":
		return nil, Invalid("description", "is required")
	case len([]rune(desc)) > MaxEventDescription:
		return nil, Invalid("description", "is too long")
	case in.StartTime.IsZero():
		return nil, Invalid("start_time", "is required")
	case len([]rune(loc)) > MaxEventLocation:
		return nil, Invalid("location", "is too long")
	}
	return &Event{
		Title:       title,
		Description: desc,
		Scope:       scope,
		StartTime:   in.StartTime.UTC(),
		Location:    loc,
		CreatedBy:   creator.ID.String(),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (e Event) DocID() string { return e.ID.Hex() }

// IsUpcoming reports whether the event starts after now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.StartTime.After(now)
}
