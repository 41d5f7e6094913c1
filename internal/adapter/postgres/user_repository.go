package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, username, email, passwordHash string, role domain.Role) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, username, email, passwordHash, role).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return 0, domain.ErrUsernameTaken
		}
		return 0, &domain.PersistenceError{Op: "create user", Err: err}
	}
	return id, nil
}

func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (*interfaces.User, error) {
	query := `
		SELECT id, username, COALESCE(email, ''), password_hash, role, is_active, created_at
		FROM users
		WHERE username = $1
	`

	var u interfaces.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.PersistenceError{Op: "find user", Err: err}
	}
	return &u, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id int64) (*interfaces.User, error) {
	query := `
		SELECT id, username, COALESCE(email, ''), password_hash, role, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var u interfaces.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.PersistenceError{Op: "find user", Err: err}
	}
	return &u, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, time.Now(), userID)
	if err != nil {
		return &domain.PersistenceError{Op: "update last login", Err: err}
	}
	return nil
}

func (r *userRepository) CreateSession(ctx context.Context, s *interfaces.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, session_token, ip_address, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, s.UserID, s.Token, s.IPAddress, s.UserAgent, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return &domain.PersistenceError{Op: "create session", Err: err}
	}
	return nil
}

func (r *userRepository) FindSession(ctx context.Context, token string) (*interfaces.Session, error) {
	query := `
		SELECT user_id, session_token, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, expires_at
		FROM user_sessions
		WHERE session_token = $1
	`

	var s interfaces.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&s.UserID, &s.Token, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, &domain.PersistenceError{Op: "find session", Err: err}
	}
	return &s, nil
}

func (r *userRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_sessions WHERE session_token = $1`, token)
	if err != nil {
		return &domain.PersistenceError{Op: "delete session", Err: err}
	}
	return nil
}
