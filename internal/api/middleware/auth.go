package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vetlink/vetlink-backend/internal/auth"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

type contextKey string

const callerContextKey contextKey = "caller"

// CallerInfo carries the authenticated identity extracted from the access
// token
type CallerInfo struct {
	UserID string
	Role   entities.UserRole
}

// CallerFromContext returns the authenticated caller, or nil on anonymous
// requests
func CallerFromContext(ctx context.Context) *CallerInfo {
	caller, _ := ctx.Value(callerContextKey).(*CallerInfo)
	return caller
}

// ContextWithCaller returns a context carrying the given caller
func ContextWithCaller(ctx context.Context, caller *CallerInfo) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// AuthMiddleware verifies bearer tokens and stores the caller in the request
// context
type AuthMiddleware struct {
	tokens *auth.TokenManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate populates the caller for valid bearer tokens but lets
// anonymous requests through. Handlers behind it decide what anonymity means.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokens.ParseAccessToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		caller := &CallerInfo{UserID: claims.UserID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(ContextWithCaller(r.Context(), caller)))
	})
}

// RequireUser rejects requests without a valid authenticated caller
func (m *AuthMiddleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if CallerFromContext(r.Context()) == nil {
			unauthorized(w, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects requests unless the caller has the admin role
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if caller == nil {
			unauthorized(w, "authentication required")
			return
		}
		if caller.Role != entities.UserRoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"admin access required"}`))
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
