package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/techLii/chatobi/internal/cache"
	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
	"github.com/techLii/chatobi/internal/ranking"
)

const (
	// ChatPageSize is how many recent messages a chat view starts with.
	ChatPageSize = 50
	// RankingSampleSize is how many recent messages feed the leaderboard and
	// trending renders. The store returns at most 100 per call.
	RankingSampleSize = 100

	unknownAuthorName = "User"
)

// ChatService provides constituency chat services.
type ChatService struct {
	messageRepo IMessageRepository
	profileRepo IProfileRepository
	userRepo    IUserRepository
	names       *cache.LRU[string]
}

// NewChatService creates a new ChatService.
func NewChatService(messageRepo IMessageRepository, profileRepo IProfileRepository, userRepo IUserRepository, names *cache.LRU[string]) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		names:       names,
	}
}

// PostMessage stores a message by author in a constituency. The author's
// current profile is copied onto the message.
func (s *ChatService) PostMessage(ctx context.Context, author *domain.User, constituency, body string) (*domain.Message, error) {
	if author == nil {
		return nil, domain.ErrAuthRequired
	}
	if _, ok := domain.LookupConstituency(constituency); !ok {
		return nil, fmt.Errorf("constituency %q: %w", constituency, domain.ErrNotFound)
	}
	// validate before touching the store
	if _, err := domain.NewMessage(author, constituency, body, nil); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetProfileByUserID(ctx, author.ID.String())
	if err != nil {
		// the snapshot is optional, the message is not
		log.Printf("[chat] could not load profile of %s: %v", author.ID, err)
		profile = nil
	}
	msg, err := domain.NewMessage(author, constituency, body, profile)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, domain.NetworkError("create message", err)
	}
	s.names.Put(msg.AuthorID, msg.AuthorName)
	return msg, nil
}

// RecentMessages returns the latest chat page of a constituency, oldest first.
func (s *ChatService) RecentMessages(ctx context.Context, constituency string) ([]domain.Message, error) {
	return s.recent(ctx, constituency, ChatPageSize)
}

// RankingSample returns the messages the leaderboard and trending are computed
// from, oldest first.
func (s *ChatService) RankingSample(ctx context.Context, constituency string) ([]domain.Message, error) {
	return s.recent(ctx, constituency, RankingSampleSize)
}

// Leaderboard ranks the authors of the recent messages of a constituency.
func (s *ChatService) Leaderboard(ctx context.Context, constituency string) ([]ranking.Leader, error) {
	msgs, err := s.RankingSample(ctx, constituency)
	if err != nil {
		return nil, err
	}
	return ranking.Leaderboard(msgs, ranking.TopLeaders), nil
}

// Trending returns the best scoring recent messages of a constituency.
func (s *ChatService) Trending(ctx context.Context, constituency string) ([]ranking.RankedMessage, error) {
	msgs, err := s.RankingSample(ctx, constituency)
	if err != nil {
		return nil, err
	}
	return ranking.Trending(msgs, ranking.TopTrending), nil
}

// AuthorName resolves a display name for a user id: the account name, else
// the name on their latest message, else a generic placeholder.
func (s *ChatService) AuthorName(ctx context.Context, userID string) string {
	if name, ok := s.names.Get(userID); ok {
		return name
	}

	name := ""
	if uid, err := uuid.Parse(userID); err == nil {
		user, err := s.userRepo.GetUserByID(ctx, uid)
		if err != nil {
			log.Printf("[chat] could not load user %s: %v", userID, err)
			return unknownAuthorName
		}
		if user != nil {
			name = user.Name
		}
	}
	if name == "" {
		msg, err := s.messageRepo.GetLatestMessageByAuthor(ctx, userID)
		if err != nil {
			log.Printf("[chat] could not load latest message of %s: %v", userID, err)
			return unknownAuthorName
		}
		if msg == nil {
			return unknownAuthorName
		}
		name = msg.AuthorName
	}
	s.names.Put(userID, name)
	return name
}

func (s *ChatService) recent(ctx context.Context, constituency string, limit int64) ([]domain.Message, error) {
	if _, ok := domain.LookupConstituency(constituency); !ok {
		return nil, fmt.Errorf("constituency %q: %w", constituency, domain.ErrNotFound)
	}
	msgs, err := s.messageRepo.ListMessagesByConstituency(ctx, constituency, limit)
	if err != nil {
		return nil, domain.NetworkError("list messages", err)
	}
	return live.Reverse(deref(msgs)), nil
}

func deref[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}
