package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daybreakhq/daybreak/internal/models"
)

const adminEmail = "admin@example.com"

func requestWithUser(user *models.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/new_post", nil)
	if user == nil {
		return r
	}
	ctx := context.WithValue(r.Context(), userKey, user)
	return r.WithContext(ctx)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous is redirected to login", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()

		RequireAuth(okHandler(&called)).ServeHTTP(rec, requestWithUser(nil))

		if called {
			t.Error("handler ran for anonymous request")
		}
		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()

		RequireAuth(okHandler(&called)).ServeHTTP(rec, requestWithUser(&models.User{ID: 1, Email: "jane@example.com"}))

		if !called {
			t.Error("handler did not run for authenticated request")
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	guard := RequireAdmin(adminEmail)

	t.Run("admin passes through", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()

		guard(okHandler(&called)).ServeHTTP(rec, requestWithUser(&models.User{ID: 1, Email: adminEmail}))

		if !called {
			t.Error("handler did not run for admin")
		}
	})

	t.Run("non-admin gets 403 with no detail", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()

		guard(okHandler(&called)).ServeHTTP(rec, requestWithUser(&models.User{ID: 2, Email: "jane@example.com"}))

		if called {
			t.Error("handler ran for non-admin")
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("anonymous gets 403 like any non-admin", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()

		guard(okHandler(&called)).ServeHTTP(rec, requestWithUser(nil))

		if called {
			t.Error("handler ran for anonymous request")
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
		if loc := rec.Header().Get("Location"); loc != "" {
			t.Errorf("Location = %q, want no redirect", loc)
		}
	})
}

func TestUserFromContext(t *testing.T) {
	if UserFromContext(context.Background()) != nil {
		t.Error("empty context produced a user")
	}

	user := &models.User{ID: 7}
	ctx := context.WithValue(context.Background(), userKey, user)
	if got := UserFromContext(ctx); got != user {
		t.Errorf("UserFromContext() = %v, want %v", got, user)
	}
}
