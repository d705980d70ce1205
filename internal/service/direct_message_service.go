package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/techLii/chatobi/internal/domain"
)

// ConversationPageSize is how many direct messages a conversation view loads.
const ConversationPageSize = 100

// DirectMessageService provides direct message services.
type DirectMessageService struct {
	dmRepo   IDirectMessageRepository
	userRepo IUserRepository
}

// NewDirectMessageService creates a new DirectMessageService.
func NewDirectMessageService(dmRepo IDirectMessageRepository, userRepo IUserRepository) *DirectMessageService {
	return &DirectMessageService{dmRepo: dmRepo, userRepo: userRepo}
}

// Send stores a direct message from one user to another.
func (s *DirectMessageService) Send(ctx context.Context, from *domain.User, toUserID, body string) (*domain.DirectMessage, error) {
	if from == nil {
		return nil, domain.ErrAuthRequired
	}
	msg, err := domain.NewDirectMessage(from.ID.String(), toUserID, body)
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(msg.ToUser)
	if err != nil {
		return nil, domain.Invalid("recipient", "is malformed")
	}
	recipient, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, domain.NetworkError("get user", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("user %s: %w", msg.ToUser, domain.ErrNotFound)
	}

	if err := s.dmRepo.CreateDirectMessage(ctx, msg); err != nil {
		return nil, domain.NetworkError("create direct message", err)
	}
	return msg, nil
}

// Conversation returns the messages exchanged between me and peer, oldest first.
func (s *DirectMessageService) Conversation(ctx context.Context, me *domain.User, peerID string) ([]domain.DirectMessage, error) {
	if me == nil {
		return nil, domain.ErrAuthRequired
	}
	msgs, err := s.dmRepo.GetMessagesByConversationID(ctx, domain.ConversationID(me.ID.String(), peerID), ConversationPageSize)
	if err != nil {
		return nil, domain.NetworkError("list direct messages", err)
	}
	return deref(msgs), nil
}
