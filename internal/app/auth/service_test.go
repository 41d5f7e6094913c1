package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type memoryUserRepo struct {
	users    map[string]*interfaces.User
	sessions map[string]*interfaces.Session
	nextID   int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:    make(map[string]*interfaces.User),
		sessions: make(map[string]*interfaces.Session),
	}
}

func (m *memoryUserRepo) CreateUser(ctx context.Context, username, email, passwordHash string, role domain.Role) (int64, error) {
	if _, exists := m.users[username]; exists {
		return 0, domain.ErrUsernameTaken
	}
	m.nextID++
	m.users[username] = &interfaces.User{
		ID:           m.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	return m.nextID, nil
}

func (m *memoryUserRepo) FindUserByUsername(ctx context.Context, username string) (*interfaces.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) FindUserByID(ctx context.Context, id int64) (*interfaces.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error { return nil }

func (m *memoryUserRepo) CreateSession(ctx context.Context, s *interfaces.Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *memoryUserRepo) FindSession(ctx context.Context, token string) (*interfaces.Session, error) {
	session, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *memoryUserRepo) DeleteSession(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "secret123", "alice@example.com", domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	token, info, err := svc.Login(ctx, "alice", "secret123", "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, domain.RoleStaff, info.Role)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(newMemoryUserRepo(), logger.Nop())

	_, err := svc.Register(context.Background(), "bob", "abc", "", domain.RoleCustomer)
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "another1", "", domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "", domain.RoleCustomer)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "secret123", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "", domain.RoleStaff)
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "secret123", "", "")
	require.NoError(t, err)

	info, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)

	_, err = svc.Authenticate(ctx, "no-such-token")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "", domain.RoleStaff)
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "secret123", "", "")
	require.NoError(t, err)

	repo.sessions[token].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The expired session is purged, so even a fresh expiry would not help.
	_, ok := repo.sessions[token]
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret123", "", domain.RoleCustomer)
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "secret123", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
