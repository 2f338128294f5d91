package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/api/handlers"
	"github.com/vetlink/vetlink-backend/internal/api/middleware"
	"github.com/vetlink/vetlink-backend/internal/application/services"
	"github.com/vetlink/vetlink-backend/internal/auth"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Session, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) List(ctx context.Context, limit, offset int) ([]*entities.Session, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newAuthHandler(userRepo *MockUserRepository, sessionRepo *MockSessionRepository) *handlers.AuthHandler {
	tokens := auth.NewTokenManager("test-secret", 15*time.Minute)
	return handlers.NewAuthHandler(services.NewAuthService(userRepo, sessionRepo, tokens, 30*24*time.Hour))
}

func TestAuthHandler_Register_CreatesClientAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	sessionRepo := new(MockSessionRepository)
	handler := newAuthHandler(userRepo, sessionRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "nina@example.com" && u.Role == entities.UserRoleClient
	})).Return(nil)

	body := `{"email":"Nina@Example.com","password":"correct horse","first_name":"Nina"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var user entities.User
	err := json.NewDecoder(w.Body).Decode(&user)
	require.NoError(t, err)
	assert.Equal(t, "nina@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthHandler_Register_RejectsShortPassword(t *testing.T) {
	handler := newAuthHandler(new(MockUserRepository), new(MockSessionRepository))

	body := `{"email":"nina@example.com","password":"short"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_ReturnsUserAndTokens(t *testing.T) {
	userRepo := new(MockUserRepository)
	sessionRepo := new(MockSessionRepository)
	handler := newAuthHandler(userRepo, sessionRepo)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	user := &entities.User{
		ID:           "user-1",
		Email:        "nina@example.com",
		PasswordHash: hash,
		Role:         entities.UserRoleClient,
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "nina@example.com").Return(user, nil)
	sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := `{"email":"nina@example.com","password":"correct horse"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User   entities.User      `json:"user"`
		Tokens services.TokenPair `json:"tokens"`
	}
	err = json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.Len(t, resp.Tokens.RefreshToken, 64)
}

func TestAuthHandler_Login_UnknownAccountMapsTo401(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo, new(MockSessionRepository))

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.NewNotFoundError("user not found"))

	body := `{"email":"ghost@example.com","password":"whatever12"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "not found")
}

func TestAuthHandler_Me_RequiresAuthentication(t *testing.T) {
	handler := newAuthHandler(new(MockUserRepository), new(MockSessionRepository))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()

	handler.Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me_ReturnsCallerAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo, new(MockSessionRepository))

	user := &entities.User{ID: "user-1", Email: "nina@example.com", IsActive: true}
	userRepo.On("GetByID", mock.Anything, "user-1").Return(user, nil)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	ctx := middleware.ContextWithCaller(req.Context(),
		&middleware.CallerInfo{UserID: "user-1", Role: entities.UserRoleClient})
	w := httptest.NewRecorder()

	handler.Me(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entities.User
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "nina@example.com", resp.Email)
}
