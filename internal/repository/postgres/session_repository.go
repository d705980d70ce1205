package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/techLii/chatobi/internal/domain"
)

// SessionRepository handles database operations for login sessions.
type SessionRepository struct {
	DB *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// CreateSession inserts a new session.
func (r *SessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	return err
}

// GetSession retrieves a session by token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	session := &domain.Session{}
	query := `SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`
	err := r.DB.QueryRowContext(ctx, query, token).
		Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func (r *SessionRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
