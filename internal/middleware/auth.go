package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/daybreakhq/daybreak/internal/models"
	"github.com/daybreakhq/daybreak/internal/service"
)

// SessionCookieName is the signed cookie that carries the server-side
// session ID.
const SessionCookieName = "daybreak_session"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// Session resolves the session cookie into a user and stores it on the
// request context. Requests without a valid session pass through
// anonymously; enforcement is left to RequireAuth and RequireAdmin.
func Session(store sessions.Store, auth service.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, SessionCookieName)
			if err != nil {
				// A tampered or stale cookie is treated as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			sessionID, ok := sess.Values["session_id"].(string)
			if !ok || sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.GetUserBySession(r.Context(), sessionID)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from anyone but the configured
// administrator account with 403 and no further detail. Anonymous
// requests get the same answer; admin routes are not advertised.
func RequireAdmin(adminEmail string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || user.Email != adminEmail {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	if v := ctx.Value(userKey); v != nil {
		return v.(*models.User)
	}
	return nil
}
