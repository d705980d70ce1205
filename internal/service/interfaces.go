package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
	"github.com/techLii/chatobi/internal/ranking"
)

// --- Service Interfaces ---

// IUserService is the identity provider: accounts and sessions.
type IUserService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, *domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// IChatService defines constituency chat operations.
type IChatService interface {
	PostMessage(ctx context.Context, author *domain.User, constituency, body string) (*domain.Message, error)
	RecentMessages(ctx context.Context, constituency string) ([]domain.Message, error)
	RankingSample(ctx context.Context, constituency string) ([]domain.Message, error)
	Leaderboard(ctx context.Context, constituency string) ([]ranking.Leader, error)
	Trending(ctx context.Context, constituency string) ([]ranking.RankedMessage, error)
	AuthorName(ctx context.Context, userID string) string
}

// IEventService defines constituency event operations.
type IEventService interface {
	CreateEvent(ctx context.Context, creator *domain.User, constituency string, in domain.EventInput) (*domain.Event, error)
	ListEvents(ctx context.Context, constituency string) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, user *domain.User, eventID string) error
}

// IDirectMessageService defines direct message operations.
type IDirectMessageService interface {
	Send(ctx context.Context, from *domain.User, toUserID, body string) (*domain.DirectMessage, error)
	Conversation(ctx context.Context, me *domain.User, peerID string) ([]domain.DirectMessage, error)
}

// IProfileService defines profile operations.
type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, user *domain.User, in domain.ProfileInput) (*domain.Profile, error)
}

// --- Repository Interfaces ---

// IUserRepository defines the interface for user persistence.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ISessionRepository defines the interface for session persistence.
type ISessionRepository interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// IMessageRepository defines the interface for chat message persistence.
type IMessageRepository interface {
	CreateMessage(ctx context.Context, message *domain.Message) error
	// ListMessagesByConstituency returns the most recent messages, newest first.
	ListMessagesByConstituency(ctx context.Context, constituency string, limit int64) ([]*domain.Message, error)
	GetLatestMessageByAuthor(ctx context.Context, authorID string) (*domain.Message, error)
	SetVote(ctx context.Context, messageID, voterID string, dir domain.VoteDirection) error
	WatchMessages(ctx context.Context) (<-chan live.Change[domain.Message], error)
}

// IEventRepository defines the interface for event persistence.
type IEventRepository interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	// ListEventsByConstituency returns events ordered by start time.
	ListEventsByConstituency(ctx context.Context, constituency string, limit int64) ([]*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	WatchEvents(ctx context.Context) (<-chan live.Change[domain.Event], error)
}

// IDirectMessageRepository defines the interface for direct message persistence.
type IDirectMessageRepository interface {
	CreateDirectMessage(ctx context.Context, message *domain.DirectMessage) error
	// GetMessagesByConversationID returns the oldest messages first.
	GetMessagesByConversationID(ctx context.Context, conversationID string, limit int64) ([]*domain.DirectMessage, error)
	WatchDirectMessages(ctx context.Context) (<-chan live.Change[domain.DirectMessage], error)
}

// IProfileRepository defines the interface for profile persistence.
type IProfileRepository interface {
	GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}
