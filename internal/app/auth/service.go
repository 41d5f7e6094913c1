package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

const (
	minPasswordLength = 6
	sessionTTL        = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionExpired     = errors.New("session expired")
)

// Service manages user accounts and login sessions backed by the store.
type Service struct {
	repo   interfaces.UserRepository
	logger logger.Logger
}

func NewService(repo interfaces.UserRepository, lg logger.Logger) *Service {
	return &Service{repo: repo, logger: lg}
}

func (s *Service) Register(ctx context.Context, username, password, email string, role domain.Role) (int64, error) {
	if username == "" || password == "" {
		return 0, errors.New("username and password are required")
	}
	if len(password) < minPasswordLength {
		return 0, fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if role == "" {
		role = domain.RoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, username, email, string(hash), role)
	if err != nil {
		return 0, err
	}

	s.logger.Info("user_registered", "User account created", "", map[string]interface{}{
		"username": username,
		"role":     string(role),
	})

	return id, nil
}

// Login verifies the credentials and opens a new session, returning the
// session token the client presents on subsequent requests.
func (s *Service) Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, *domain.UserInfo, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	session := &interfaces.Session{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return "", nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("db_error", "Failed to record last login", "", nil, err)
	}

	s.logger.Info("user_login", "User logged in", "", map[string]interface{}{
		"username": user.Username,
	})

	return session.Token, &domain.UserInfo{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to the user it belongs to.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.UserInfo, error) {
	session, err := s.repo.FindSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.repo.FindUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.UserInfo{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}
