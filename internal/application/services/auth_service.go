package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetlink/vetlink-backend/internal/auth"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// RegisterInput is the payload for account registration
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LoginInput is the payload for credential login
type LoginInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthService handles registration, login and refresh-token sessions
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	tokens      *auth.TokenManager
	refreshTTL  time.Duration
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	tokens *auth.TokenManager,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}
}

// Register creates a new client account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := s.now()
	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         entities.UserRoleClient,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and opens a refresh-token session. Credential
// failures are indistinguishable from unknown accounts.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*entities.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return nil, nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if err := auth.CheckPassword(input.Password, user.PasswordHash); err != nil {
		return nil, nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	pair, err := s.openSession(ctx, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a new
// session with a fresh token pair is opened
func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return nil, apperrors.NewUnauthorizedError("invalid refresh token")
		}
		return nil, err
	}
	if !session.IsValid(s.now()) {
		return nil, apperrors.NewUnauthorizedError("refresh token expired or revoked")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("account is deactivated")
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("session_id", session.ID).
			Msg("Failed to revoke rotated session")
	}

	return s.openSession(ctx, user, userAgent, ipAddress)
}

// Logout revokes the session matching the presented refresh token. Unknown
// tokens are a no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return nil
		}
		return err
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// LogoutAll revokes every session of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessionRepo.RevokeByUser(ctx, userID)
}

// ListSessions retrieves a user's sessions, newest first
func (s *AuthService) ListSessions(ctx context.Context, userID string, limit, offset int) ([]*entities.Session, error) {
	return s.sessionRepo.ListByUser(ctx, userID, limit, offset)
}

// ListAllSessions retrieves sessions across users, for the admin dashboard
func (s *AuthService) ListAllSessions(ctx context.Context, limit, offset int) ([]*entities.Session, error) {
	return s.sessionRepo.List(ctx, limit, offset)
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) openSession(ctx context.Context, user *entities.User, userAgent, ipAddress string) (*TokenPair, error) {
	now := s.now()

	accessToken, err := s.tokens.MakeAccessToken(user, now)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue access token", err)
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue refresh token", err)
	}

	session := &entities.Session{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		ExpiresAt:        now.Add(s.refreshTTL),
		CreatedAt:        now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}
