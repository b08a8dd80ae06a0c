package web

import (
	"net/http"
	"net/url"

	"github.com/daybreakhq/daybreak/internal/middleware"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/pkg/ulid"
	"github.com/daybreakhq/daybreak/internal/service"
	"github.com/daybreakhq/daybreak/internal/validation"
	"github.com/daybreakhq/daybreak/templates/pages"
)

// ForgotPasswordPage renders step one of password recovery.
func (h *WebHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Forgot Password", pages.SendCode("", r.URL.Query().Get("flash")))
}

// ForgotPassword generates a one-time code, mails it and moves the
// browser to the verification step.
func (h *WebHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := validation.SendCodeForm{Email: r.FormValue("email")}
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "Forgot Password", pages.SendCode(form.Email, verr.Message))
		return
	}

	stateID, err := h.recovery.Start(r.Context(), form.Email)
	if err != nil {
		switch {
		case weberrors.IsKind(err, weberrors.KindAuth):
			h.render(w, r, "Forgot Password", pages.SendCode(form.Email, weberrors.AsWebError(err).Message))
		case weberrors.IsKind(err, weberrors.KindDependency):
			// The code never reached the user; say so instead of
			// pretending it did.
			h.logger.Error("recovery mail dispatch failed", "error", err)
			h.render(w, r, "Forgot Password", pages.SendCode(form.Email, "We couldn't send the email. Try again later."))
		default:
			h.logger.Error("recovery start failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	sess, _ := h.store.Get(r, RecoveryCookieName)
	sess.Values["state_id"] = stateID
	sess.Options.HttpOnly = true
	sess.Options.Path = "/"
	if err := sess.Save(r, w); err != nil {
		h.logger.Error("failed to save recovery cookie", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	middleware.IncrementRecoveryCodesSent()
	http.Redirect(w, r, "/forgot_password/verification", http.StatusSeeOther)
}

// VerifyCodePage renders step two of password recovery.
func (h *WebHandler) VerifyCodePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Verification", pages.VerifyCode(r.URL.Query().Get("flash")))
}

// VerifyCode checks the submitted code against the pending state.
func (h *WebHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		h.render(w, r, "Verification", pages.VerifyCode("Codes aren't matching, try again."))
		return
	}

	sess, _ := h.store.Get(r, RecoveryCookieName)
	stateID, _ := sess.Values["state_id"].(string)
	if stateID == "" {
		// No step-1 state at all. The attempt still counts: mint a state
		// so repeated blind guesses accumulate toward the lockout.
		stateID = ulid.New()
		sess.Values["state_id"] = stateID
		sess.Options.HttpOnly = true
		sess.Options.Path = "/"
		if err := sess.Save(r, w); err != nil {
			h.logger.Error("failed to save recovery cookie", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	user, result, err := h.recovery.Verify(r.Context(), stateID, code)
	if err != nil {
		h.logger.Error("code verification failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch result {
	case service.VerifyOK:
		_, sessionID, err := h.auth.LoginByEmail(r.Context(), user.Email)
		if err != nil {
			h.logger.Error("post-verification login failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// The recovery cookie is spent.
		sess.Options.MaxAge = -1
		sess.Save(r, w)

		if err := h.setSessionCookie(w, r, sessionID); err != nil {
			h.logger.Error("failed to save session cookie", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.pace()
		http.Redirect(w, r, "/reset", http.StatusSeeOther)

	case service.VerifyLockedOut:
		sess.Options.MaxAge = -1
		sess.Save(r, w)
		middleware.IncrementRecoveryLockouts()
		h.pace()
		http.Redirect(w, r, "/forgot_password?flash="+url.QueryEscape("Too many attempts. Try again now."), http.StatusSeeOther)

	default:
		h.render(w, r, "Verification", pages.VerifyCode("Codes aren't matching, try again."))
	}
}

// ResetPage renders the new-password form.
func (h *WebHandler) ResetPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Reset Password", pages.ResetPassword(""))
}

// Reset overwrites the logged-in user's password.
func (h *WebHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := validation.ResetForm{
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}
	if form.Password != form.PasswordConfirm {
		h.render(w, r, "Reset Password", pages.ResetPassword("Passwords aren't matches, try again."))
		return
	}
	if verr := h.forms.Validate(form); verr != nil {
		h.render(w, r, "Reset Password", pages.ResetPassword(verr.Message))
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.auth.ResetPassword(r.Context(), user.ID, form.Password); err != nil {
		h.logger.Error("password reset failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?flash="+url.QueryEscape("Your password has been changed."), http.StatusSeeOther)
}

// DeleteAccountPage renders the are-you-sure page.
func (h *WebHandler) DeleteAccountPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Delete Account", pages.DeleteConfirm(""))
}

// DeleteAccount removes the account together with its posts and
// comments, then ends the session.
func (h *WebHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	posts, comments, err := h.auth.DeleteAccount(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("account deletion failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("account deleted",
		"user_id", user.ID,
		"posts_removed", posts,
		"comments_removed", comments,
	)

	h.clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
