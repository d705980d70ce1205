package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxProfileLocation = 100

// Profile holds optional demographic details of a user. One per user.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	Age       *int               `bson:"age,omitempty" json:"age,omitempty"`
	Sex       string             `bson:"sex,omitempty" json:"sex,omitempty"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Age      *int   `json:"age,omitempty"`
	Sex      string `json:"sex,omitempty"`
	Location string `json:"location,omitempty"`
}

var profileSexes = map[string]bool{"": true, "Male": true, "Female": true, "Other": true}

// NewProfile validates input and builds the profile of userID.
func NewProfile(userID string, in ProfileInput) (*Profile, error) {
	loc := strings.TrimSpace(in.Location)
	switch {
	case in.Age != nil && (*in.Age < 1 || *in.Age > 150):
		return nil, Invalid("age", "must be between 1 and 150")
	case !profileSexes[in.Sex]:
		return nil, Invalid("sex", "must be Male, Female or Other")
	case len([]rune(loc)) > MaxProfileLocation:
		return nil, Invalid("location", "is too long")
	}
	p := &Profile{
		UserID:    userID,
		Sex:       in.Sex,
		Location:  loc,
		UpdatedAt: time.Now().UTC(),
	}
	if in.Age != nil {
		age := *in.Age
		p.Age = &age
	}
	return p, nil
}
