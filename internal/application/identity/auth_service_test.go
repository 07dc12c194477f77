package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agromarket/backend/internal/domain/identity"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/agromarket/backend/internal/infrastructure/auth"
	"github.com/agromarket/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*identity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.JWTService, *auth.InMemoryTokenBlacklist) {
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "agromarket-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, jwtSvc, blacklist, zap.NewNop()), jwtSvc, blacklist
}

func newTestUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("farmer@example.com", "correct-horse", "Ana", "Lopes")
	require.NoError(t, err)
	u.IsBusinessOwner = true
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newTestAuthService(repo)
		repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		res, err := svc.Register(ctx, RegisterRequest{
			Email:           "New@Example.com",
			FirstName:       "Jo",
			Password:        "long-enough",
			Password2:       "long-enough",
			IsBusinessOwner: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", res.User.Email)
		assert.True(t, res.User.IsBusinessOwner)
		assert.Equal(t, "User registered successfully", res.Message)
		repo.AssertExpectations(t)
	})

	t.Run("password mismatch", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newTestAuthService(repo)

		_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.io", Password: "long-enough", Password2: "different"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PASSWORD_MISMATCH", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newTestAuthService(repo)
		repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.Register(ctx, RegisterRequest{Email: "taken@example.com", Password: "long-enough", Password2: "long-enough"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)

	t.Run("issues tokens with role flags", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, jwtSvc, _ := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "farmer@example.com").Return(user, nil)

		res, err := svc.Login(ctx, LoginRequest{Email: "farmer@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		require.NotNil(t, res.User)
		assert.Equal(t, user.ID, res.User.ID)

		claims, err := jwtSvc.ValidateAccessToken(res.Access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.True(t, claims.IsBusinessOwner)
		assert.False(t, claims.IsStaff)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "farmer@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "farmer@example.com", Password: "nope-nope"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_CREDENTIALS", de.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newTestAuthService(repo)
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_CREDENTIALS", de.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	repo := new(MockUserRepository)
	svc, jwtSvc, _ := newTestAuthService(repo)

	pair, err := jwtSvc.GenerateTokenPair(auth.Subject{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)

	user.IsStaff = true
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	res, err := svc.Refresh(ctx, RefreshRequest{Refresh: pair.RefreshToken})
	require.NoError(t, err)
	assert.Nil(t, res.User)

	claims, err := jwtSvc.ValidateAccessToken(res.Access)
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)

	_, err = svc.Refresh(ctx, RefreshRequest{Refresh: "garbage"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "TOKEN_INVALID", de.Code)
}

func TestAuthService_MeAndLogout(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	repo := new(MockUserRepository)
	svc, _, blacklist := newTestAuthService(repo)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", me.Email)

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: user.ID, TokenJTI: "jti-1", TTL: time.Minute}))
	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
