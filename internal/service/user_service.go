package service

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techLii/chatobi/internal/domain"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// UserService provides user-related services.
type UserService struct {
	userRepo    IUserRepository
	sessionRepo ISessionRepository
	sessionTTL  time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(userRepo IUserRepository, sessionRepo ISessionRepository, sessionTTL time.Duration) *UserService {
	return &UserService{userRepo: userRepo, sessionRepo: sessionRepo, sessionTTL: sessionTTL}
}

// Signup creates a new user account and logs it in.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*domain.User, *domain.Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return nil, nil, domain.Invalid("name", "is required")
	case !validEmail(email):
		return nil, nil, domain.Invalid("email", "is not a valid address")
	case len(password) < MinPasswordLength:
		return nil, nil, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	// Check if user already exists
	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.NetworkError("get user", err)
	}
	if existingUser != nil {
		return nil, nil, fmt.Errorf("email %s: %w", email, domain.ErrConflict)
	}

	// Create new user domain object (handles password hashing)
	newUser, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.CreateUser(ctx, newUser); err != nil {
		return nil, nil, domain.NetworkError("create user", err)
	}

	session, err := s.startSession(ctx, newUser)
	if err != nil {
		return nil, nil, err
	}
	return newUser, session, nil
}

// Login authenticates a user and opens a session.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, nil, domain.NetworkError("get user", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout destroys the session behind token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrAuthRequired
	}
	if err := s.sessionRepo.DeleteSession(ctx, token); err != nil {
		return domain.NetworkError("delete session", err)
	}
	return nil
}

// CurrentUser resolves the user of a live session.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrAuthRequired
	}
	session, err := s.sessionRepo.GetSession(ctx, token)
	if err != nil {
		return nil, domain.NetworkError("get session", err)
	}
	if session == nil {
		return nil, domain.ErrAuthRequired
	}
	if session.Expired(time.Now()) {
		if err := s.sessionRepo.DeleteSession(ctx, token); err != nil {
			log.Printf("[user] could not delete expired session: %v", err)
		}
		return nil, domain.ErrAuthRequired
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.NetworkError("get user", err)
	}
	if user == nil {
		return nil, domain.ErrAuthRequired
	}
	return user, nil
}

// GetUser retrieves a user by id. It returns nil when no such user exists.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	user, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, domain.NetworkError("get user", err)
	}
	return user, nil
}

func (s *UserService) startSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	session := domain.NewSession(user.ID, s.sessionTTL)
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, domain.NetworkError("create session", err)
	}
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
