package domain

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxDirectMessageBody = 2000

// DirectMessage is a private message between two users. Immutable once created.
type DirectMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	Body           string             `bson:"text" json:"body"`
	FromUser       string             `bson:"fromUser" json:"from_user"`
	ToUser         string             `bson:"toUser" json:"to_user"`
	SentAt         time.Time          `bson:"timestamp" json:"sent_at"`
}

// NewDirectMessage validates and builds a message from one user to another.
func NewDirectMessage(from, to, body string) (*DirectMessage, error) {
	body = strings.TrimSpace(body)
	to = strings.TrimSpace(to)
	switch {
	case to == "":
		return nil, Invalid("recipient", "is required")
	case to == from:
		return nil, Invalid("recipient", "must be another user")
	case body == "":
		return nil, Invalid("body", "is required")
	case len([]rune(body)) > MaxDirectMessageBody:
		return nil, Invalid("body", "is too long")
	}
	return &DirectMessage{
		ConversationID: ConversationID(from, to),
		Body:           body,
		FromUser:       from,
		ToUser:         to,
		SentAt:         time.Now().UTC(),
	}, nil
}

func (m DirectMessage) DocID() string { return m.ID.Hex() }

// ConversationID identifies the unordered pair of users.
func ConversationID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}
