package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error

	// Delete deactivates a user
	Delete(ctx context.Context, id string) error
}

// SessionRepository defines the interface for refresh-token sessions
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.Session) error

	// GetByTokenHash retrieves a session by refresh-token hash
	GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)

	// ListByUser retrieves the sessions of a user, newest first
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Session, error)

	// List retrieves sessions across all users, newest first
	List(ctx context.Context, limit, offset int) ([]*entities.Session, error)

	// Revoke marks a session as revoked
	Revoke(ctx context.Context, id string) error

	// RevokeByUser revokes every session of a user
	RevokeByUser(ctx context.Context, userID string) error
}
