package domain

import (
	"encoding/json"
	"time"
)

// WebSocketMessage is the envelope exchanged between clients and the server.
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Request types sent by clients.
const (
	TypeSignup             = "signup"
	TypeLogin              = "login"
	TypeResume             = "resume"
	TypeLogout             = "logout"
	TypeListConstituencies = "list_constituencies"
	TypeOpenView           = "open_view"
	TypeCloseView          = "close_view"
	TypePostMessage        = "post_message"
	TypeCastVote           = "cast_vote"
	TypeCreateEvent        = "create_event"
	TypeDeleteEvent        = "delete_event"
	TypeSendDirectMessage  = "send_direct_message"
	TypeGetProfile         = "get_profile"
	TypeSaveProfile        = "save_profile"
)

// Push types sent by the server.
const (
	TypeLoginSuccess   = "login_success"
	TypeLogoutSuccess  = "logout_success"
	TypeConstituencies = "constituencies"
	TypeViewUpdate     = "view_update"
	TypeVoteApplied    = "vote_applied"
	TypeProfile        = "profile"
	TypeSystemMessage  = "system_message"
	TypeErrorMessage   = "error_message"
)

// View kinds a client can open.
const (
	ViewChat         = "chat"
	ViewLeaderboard  = "leaderboard"
	ViewTrending     = "trending"
	ViewEvents       = "events"
	ViewConversation = "dm"
)

// SignupPayload is the payload of a 'signup' request.
type SignupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload is the payload of a 'login' request.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResumePayload restores a session from a previously issued token.
type ResumePayload struct {
	Token string `json:"token"`
}

// LoginSuccessPayload answers 'signup', 'login' and 'resume'.
type LoginSuccessPayload struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OpenViewPayload mounts a live view on the connection.
type OpenViewPayload struct {
	ViewID       string `json:"view_id"`
	Kind         string `json:"kind"`
	Constituency string `json:"constituency,omitempty"`
	Peer         string `json:"peer,omitempty"`
}

// CloseViewPayload tears down a mounted view.
type CloseViewPayload struct {
	ViewID string `json:"view_id"`
}

// ViewUpdatePayload carries the rendered items of a view after every change.
type ViewUpdatePayload struct {
	ViewID string          `json:"view_id"`
	Kind   string          `json:"kind"`
	Title  string          `json:"title,omitempty"`
	Items  json.RawMessage `json:"items"`
}

// PostMessagePayload is the payload of a 'post_message' request.
type PostMessagePayload struct {
	Constituency string `json:"constituency"`
	Body         string `json:"body"`
}

// CastVotePayload votes on a message shown in an open view.
type CastVotePayload struct {
	ViewID    string `json:"view_id"`
	MessageID string `json:"message_id"`
	Direction string `json:"direction"`
}

// VoteAppliedPayload confirms a persisted vote.
type VoteAppliedPayload struct {
	MessageID string        `json:"message_id"`
	Direction VoteDirection `json:"direction"`
	Score     int           `json:"score"`
}

// CreateEventPayload is the payload of a 'create_event' request.
type CreateEventPayload struct {
	Constituency string `json:"constituency"`
	EventInput
}

// DeleteEventPayload is the payload of a 'delete_event' request.
type DeleteEventPayload struct {
	EventID string `json:"event_id"`
}

// SendDirectMessagePayload is the payload of a 'send_direct_message' request.
type SendDirectMessagePayload struct {
	Recipient string `json:"recipient"` // user id of the recipient
	Content   string `json:"content"`
}

// GetProfilePayload asks for the profile of a user. An empty UserID means the
// signed in user.
type GetProfilePayload struct {
	UserID string `json:"user_id,omitempty"`
}

// ProfilePayload answers 'get_profile' and 'save_profile'. Profile is nil when
// the user has none yet.
type ProfilePayload struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Profile *Profile `json:"profile"`
}

// ConstituenciesPayload lists the known constituencies.
type ConstituenciesPayload struct {
	Constituencies []Constituency `json:"constituencies"`
}

// SystemPayload is the payload of 'system_message' and 'error_message'.
type SystemPayload struct {
	Op        string    `json:"op,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
