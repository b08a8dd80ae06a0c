package web

import (
	"net/http"

	"github.com/daybreakhq/daybreak/internal/middleware"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/service"
	"github.com/daybreakhq/daybreak/internal/validation"
	"github.com/daybreakhq/daybreak/templates/pages"
)

// setSessionCookie writes the signed session cookie after a login.
func (h *WebHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) error {
	sess, _ := h.store.Get(r, middleware.SessionCookieName)
	sess.Values["session_id"] = sessionID
	sess.Options.HttpOnly = true
	sess.Options.Path = "/"
	sess.Options.SameSite = http.SameSiteLaxMode
	return sess.Save(r, w)
}

// clearSessionCookie expires the session cookie.
func (h *WebHandler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.store.Get(r, middleware.SessionCookieName)
	sess.Options.MaxAge = -1
	sess.Save(r, w)
}

// RegisterPage renders the sign-up form.
func (h *WebHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Register", pages.Register("", "", ""))
}

// Register creates a new account and logs it in.
func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := validation.RegisterForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "Register", pages.Register(form.Name, form.Email, verr.Message))
		return
	}

	_, sessionID, err := h.auth.Register(r.Context(), service.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if weberrors.IsKind(err, weberrors.KindConflict) {
			// Duplicate email comes back with the email field cleared.
			h.render(w, r, "Register", pages.Register(form.Name, "", weberrors.AsWebError(err).Message))
			return
		}
		h.logger.Error("registration failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.setSessionCookie(w, r, sessionID); err != nil {
		h.logger.Error("failed to save session cookie", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage renders the sign-in form.
func (h *WebHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Log In", pages.Login("", r.URL.Query().Get("flash")))
}

// Login verifies credentials and starts a session.
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := validation.LoginForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "Log In", pages.Login(form.Email, verr.Message))
		return
	}

	_, sessionID, err := h.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if weberrors.IsKind(err, weberrors.KindAuth) {
			h.render(w, r, "Log In", pages.Login(form.Email, weberrors.AsWebError(err).Message))
			return
		}
		h.logger.Error("login failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.setSessionCookie(w, r, sessionID); err != nil {
		h.logger.Error("failed to save session cookie", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	middleware.IncrementLogins()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the server-side session and expires the cookie.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.store.Get(r, middleware.SessionCookieName)
	if sessionID, ok := sess.Values["session_id"].(string); ok && sessionID != "" {
		if err := h.auth.Logout(r.Context(), sessionID); err != nil {
			h.logger.Error("logout failed", "error", err)
		}
	}
	h.clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
