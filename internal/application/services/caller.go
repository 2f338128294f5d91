package services

import (
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// Caller identifies the authenticated user a service call runs on behalf of
type Caller struct {
	UserID string
	Role   entities.UserRole
}

// IsAdmin reports whether the caller has the admin role
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == entities.UserRoleAdmin
}

// mayAccess allows admins and the owning user through
func (c *Caller) mayAccess(ownerID string) error {
	if c == nil {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	if c.IsAdmin() || c.UserID == ownerID {
		return nil
	}
	return apperrors.NewForbiddenError("access denied")
}
