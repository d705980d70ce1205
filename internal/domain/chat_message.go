package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxMessageBody is the longest message body the messages collection accepts.
const MaxMessageBody = 1000

// Message is a post in a constituency chat, stored in MongoDB.
//
// The Author* profile fields are a snapshot taken when the message was posted
// and are never updated afterwards.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Body           string             `bson:"body" json:"body"`
	AuthorID       string             `bson:"userId" json:"author_id"`
	AuthorName     string             `bson:"username" json:"author_name"`
	Scope          string             `bson:"constituency" json:"constituency"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
	Upvoters       []string           `bson:"upvotes" json:"upvoters"`
	Downvoters     []string           `bson:"downvotes" json:"downvoters"`
	AuthorAge      *int               `bson:"userAge,omitempty" json:"author_age,omitempty"`
	AuthorSex      string             `bson:"userSex,omitempty" json:"author_sex,omitempty"`
	AuthorLocation string             `bson:"userLocation,omitempty" json:"author_location,omitempty"`
}

// NewMessage builds a message ready to be stored. Vote sets start empty, not
// nil, so the store never holds a null array.
func NewMessage(author *User, scope, body string, profile *Profile) (*Message, error) {
	body = strings.TrimSpace(body)
	switch {
	case body == "":
		return nil, Invalid("body", "is required")
	case len([]rune(body)) > MaxMessageBody:
		return nil, Invalid("body", "is too long")
	}
	m := &Message{
		Body:       body,
		AuthorID:   author.ID.String(),
		AuthorName: author.Name,
		Scope:      scope,
		CreatedAt:  time.Now().UTC(),
		Upvoters:   []string{},
		Downvoters: []string{},
	}
	if profile != nil {
		if profile.Age != nil {
			age := *profile.Age
			m.AuthorAge = &age
		}
		m.AuthorSex = profile.Sex
		m.AuthorLocation = profile.Location
	}
	return m, nil
}

func (m Message) DocID() string { return m.ID.Hex() }

// Score is the number of upvotes minus the number of downvotes.
func (m Message) Score() int {
	return len(m.Upvoters) - len(m.Downvoters)
}

// VoteOf reports the direction the user currently votes in.
func (m Message) VoteOf(userID string) VoteDirection {
	if contains(m.Upvoters, userID) {
		return VoteUp
	}
	if contains(m.Downvoters, userID) {
		return VoteDown
	}
	return VoteNone
}

// Clone returns a copy that shares no slices with m.
func (m Message) Clone() Message {
	c := m
	c.Upvoters = append([]string{}, m.Upvoters...)
	c.Downvoters = append([]string{}, m.Downvoters...)
	if m.AuthorAge != nil {
		age := *m.AuthorAge
		c.AuthorAge = &age
	}
	return c
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
