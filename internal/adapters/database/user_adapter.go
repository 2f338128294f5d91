package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

var userColumns = []interface{}{
	"id", "email", "password_hash", "first_name", "last_name",
	"phone", "role", "is_active", "created_at", "updated_at",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Insert("users").Rows(goqu.Record{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"phone":         user.Phone,
		"role":          user.Role,
		"is_active":     user.IsActive,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("user with email %s already exists", user.Email))
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email}, fmt.Sprintf("user with email %s not found", email))
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// Update updates a user
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	user.UpdatedAt = time.Now()

	query, args, err := a.db.Update("users").
		Set(goqu.Record{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"phone":         user.Phone,
			"role":          user.Role,
			"is_active":     user.IsActive,
			"updated_at":    user.UpdatedAt,
		}).
		Where(goqu.Ex{"id": user.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("user with id %s not found", user.ID))
}

// Delete deactivates a user. Rows are kept so activity history stays intact.
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("users").
		Set(goqu.Record{"is_active": false, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("user with id %s not found", id))
}

var sessionColumns = []interface{}{
	"id", "user_id", "refresh_token_hash", "user_agent", "ip_address",
	"expires_at", "revoked_at", "created_at",
}

// SessionAdapter implements the SessionRepository interface
type SessionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSessionAdapter creates a new session adapter
func NewSessionAdapter(client *postgres.Client) repositories.SessionRepository {
	return &SessionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new session
func (a *SessionAdapter) Create(ctx context.Context, session *entities.Session) error {
	query, args, err := a.db.Insert("sessions").Rows(goqu.Record{
		"id":                 session.ID,
		"user_id":            session.UserID,
		"refresh_token_hash": session.RefreshTokenHash,
		"user_agent":         session.UserAgent,
		"ip_address":         session.IPAddress,
		"expires_at":         session.ExpiresAt,
		"created_at":         session.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create session", err)
	}
	return nil
}

// GetByTokenHash retrieves a session by refresh-token hash
func (a *SessionAdapter) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	query, args, err := a.db.Select(sessionColumns...).
		From("sessions").
		Where(goqu.Ex{"refresh_token_hash": tokenHash}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	session := &entities.Session{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&session.ID, &session.UserID, &session.RefreshTokenHash, &session.UserAgent,
		&session.IPAddress, &session.ExpiresAt, &session.RevokedAt, &session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get session", err)
	}
	return session, nil
}

// ListByUser retrieves the sessions of a user, newest first
func (a *SessionAdapter) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Session, error) {
	return a.list(ctx, goqu.Ex{"user_id": userID}, limit, offset)
}

// List retrieves sessions across all users, newest first
func (a *SessionAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Session, error) {
	return a.list(ctx, nil, limit, offset)
}

func (a *SessionAdapter) list(ctx context.Context, where goqu.Ex, limit, offset int) ([]*entities.Session, error) {
	if limit <= 0 {
		limit = 50
	}

	ds := a.db.Select(sessionColumns...).
		From("sessions").
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset))
	if where != nil {
		ds = ds.Where(where)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query sessions", err)
	}
	defer rows.Close()

	sessions := []*entities.Session{}
	for rows.Next() {
		session := &entities.Session{}
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.RefreshTokenHash, &session.UserAgent,
			&session.IPAddress, &session.ExpiresAt, &session.RevokedAt, &session.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan session", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate sessions", err)
	}
	return sessions, nil
}

// Revoke marks a session as revoked
func (a *SessionAdapter) Revoke(ctx context.Context, id string) error {
	query, args, err := a.db.Update("sessions").
		Set(goqu.Record{"revoked_at": time.Now()}).
		Where(goqu.Ex{"id": id, "revoked_at": nil}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	return execExpectingRow(ctx, a.client, query, args, fmt.Sprintf("session with id %s not found", id))
}

// RevokeByUser revokes every active session of a user. Revoking a user with
// no active sessions is not an error.
func (a *SessionAdapter) RevokeByUser(ctx context.Context, userID string) error {
	query, args, err := a.db.Update("sessions").
		Set(goqu.Record{"revoked_at": time.Now()}).
		Where(goqu.Ex{"user_id": userID, "revoked_at": nil}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to revoke sessions", err)
	}
	return nil
}
