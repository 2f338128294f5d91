package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/auth"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *entities.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}
func (m *MockSessionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Session, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Session), args.Error(1)
}
func (m *MockSessionRepo) List(ctx context.Context, limit, offset int) ([]*entities.Session, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Session), args.Error(1)
}
func (m *MockSessionRepo) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockSessionRepo) RevokeByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newAuthService(userRepo *MockUserRepo, sessionRepo *MockSessionRepo) *AuthService {
	tokens := auth.NewTokenManager("test-secret", 15*time.Minute)
	return NewAuthService(userRepo, sessionRepo, tokens, 30*24*time.Hour)
}

func activeUser(t *testing.T, password string) *entities.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &entities.User{
		ID:           "user-1",
		Email:        "client@example.com",
		PasswordHash: hash,
		Role:         entities.UserRoleClient,
		IsActive:     true,
	}
}

func TestRegisterCreatesClientAccount(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newAuthService(userRepo, new(MockSessionRepo))

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@example.com" && u.Role == entities.UserRoleClient && u.IsActive
	})).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    " NEW@example.com ",
		Password: "long-enough",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "long-enough", user.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(new(MockUserRepo), new(MockSessionRepo))

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "short",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	userRepo := new(MockUserRepo)
	sessionRepo := new(MockSessionRepo)
	svc := newAuthService(userRepo, sessionRepo)

	user := activeUser(t, "correct-password")
	userRepo.On("GetByEmail", mock.Anything, "client@example.com").Return(user, nil)
	sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.Session) bool {
		return s.UserID == "user-1" && s.RefreshTokenHash != ""
	})).Return(nil)

	got, pair, err := svc.Login(context.Background(), LoginInput{
		Email:    "Client@Example.com",
		Password: "correct-password",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	sessionRepo.AssertExpectations(t)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newAuthService(userRepo, new(MockSessionRepo))

	userRepo.On("GetByEmail", mock.Anything, "client@example.com").Return(activeUser(t, "correct-password"), nil)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "client@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
}

func TestLoginUnknownAccountLooksLikeBadPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newAuthService(userRepo, new(MockSessionRepo))

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.NewNotFoundError("user with email ghost@example.com not found"))

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever-password",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	assert.NotContains(t, err.Error(), "not found")
}

func TestRefreshRotatesSession(t *testing.T) {
	userRepo := new(MockUserRepo)
	sessionRepo := new(MockSessionRepo)
	svc := newAuthService(userRepo, sessionRepo)

	refreshToken, err := auth.GenerateRefreshToken()
	require.NoError(t, err)

	session := &entities.Session{
		ID:               "session-1",
		UserID:           "user-1",
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        time.Now().Add(time.Hour),
	}
	sessionRepo.On("GetByTokenHash", mock.Anything, session.RefreshTokenHash).Return(session, nil)
	userRepo.On("GetByID", mock.Anything, "user-1").Return(activeUser(t, "pw-irrelevant"), nil)
	sessionRepo.On("Revoke", mock.Anything, "session-1").Return(nil)
	sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	pair, err := svc.Refresh(context.Background(), refreshToken, "agent", "127.0.0.1")

	require.NoError(t, err)
	assert.NotEqual(t, refreshToken, pair.RefreshToken)
	sessionRepo.AssertExpectations(t)
}

func TestRefreshRejectsRevokedSession(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	svc := newAuthService(new(MockUserRepo), sessionRepo)

	refreshToken, err := auth.GenerateRefreshToken()
	require.NoError(t, err)

	revoked := time.Now().Add(-time.Hour)
	session := &entities.Session{
		ID:               "session-1",
		UserID:           "user-1",
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        time.Now().Add(time.Hour),
		RevokedAt:        &revoked,
	}
	sessionRepo.On("GetByTokenHash", mock.Anything, session.RefreshTokenHash).Return(session, nil)

	_, err = svc.Refresh(context.Background(), refreshToken, "", "")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
}

func TestLogoutUnknownTokenIsNoOp(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	svc := newAuthService(new(MockUserRepo), sessionRepo)

	sessionRepo.On("GetByTokenHash", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewNotFoundError("session not found"))

	err := svc.Logout(context.Background(), "unknown-token")

	assert.NoError(t, err)
}
