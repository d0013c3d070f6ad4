package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	domainerrors "github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/policy"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userIDKey is the context key for the authenticated user ID.
const userIDKey ctxKey = "userID"

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}

// setUserID stores the user ID in context.
func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// authMiddleware returns a middleware that validates Bearer tokens and stores user ID in context.
// If no token is present or invalid, continues without user in context.
// Handlers use GetUserID or the Server actor helpers to check authentication.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token := authHeader[7:]
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				// Invalid token - continue without user (handler will reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the authenticated user, or nil when the request is
// anonymous. A user ID in context that no longer resolves (account deleted
// after the token was issued) also counts as anonymous.
func (s *Server) currentUser(ctx context.Context) *domain.User {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return nil
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}

// RequireUser returns the authenticated user from context.
// Returns 401 if not authenticated.
func (s *Server) RequireUser(ctx context.Context) (*domain.User, error) {
	user := s.currentUser(ctx)
	if user == nil {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	return user, nil
}

// authorize resolves the current actor and checks it against a policy.
// Anonymous denials come back as 401, authenticated ones as 403.
func (s *Server) authorize(ctx context.Context, p policy.Policy, action policy.Action) (*domain.User, error) {
	actor := s.currentUser(ctx)
	if !p.Allows(policy.Request{Actor: actor, Action: action}) {
		if actor == nil {
			return nil, domainerrors.Unauthorized("authentication required")
		}
		return nil, domainerrors.Forbidden("you do not have permission to perform this action")
	}
	return actor, nil
}
