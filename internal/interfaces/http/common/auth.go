package common

import (
	"context"
	"log"
	"net/http"
)

type contextKey string

const authUserContextKey contextKey = "authUser"

// AuthenticatedUser represents the JWT-derived principal.
// For employees ID is the employee id used for menu resolution and selections.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}

// RequireRole rejects requests whose authenticated user lacks role.
// It must run after the JWT middleware.
func RequireRole(logger *log.Logger, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				WriteJSON(logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
				return
			}
			if user.Role != role {
				WriteJSON(logger, w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
