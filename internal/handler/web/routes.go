// Package web provides the HTTP handlers for the blog's pages.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/daybreakhq/daybreak/internal/mailer"
	"github.com/daybreakhq/daybreak/internal/middleware"
	"github.com/daybreakhq/daybreak/internal/service"
	"github.com/daybreakhq/daybreak/internal/validation"
	"github.com/daybreakhq/daybreak/templates/layouts"
)

// RecoveryCookieName is the signed cookie that carries the recovery
// state ID between the forgot-password steps.
const RecoveryCookieName = "daybreak_recovery"

// WebHandler handles HTTP requests for the web pages.
type WebHandler struct {
	logger     *slog.Logger
	auth       service.AuthService
	recovery   service.RecoveryService
	posts      service.PostService
	forms      *validation.FormValidator
	store      sessions.Store
	mail       mailer.Sender
	adminEmail string
	contactTo  string
	pacing     time.Duration
}

// Config holds the handler's tunables.
type Config struct {
	AdminEmail string
	ContactTo  string
	// PacingDelay is slept after content writes and code checks; zero
	// disables it.
	PacingDelay time.Duration
}

// NewWebHandler creates a new WebHandler instance.
func NewWebHandler(
	logger *slog.Logger,
	auth service.AuthService,
	recovery service.RecoveryService,
	posts service.PostService,
	forms *validation.FormValidator,
	store sessions.Store,
	mail mailer.Sender,
	cfg Config,
) *WebHandler {
	return &WebHandler{
		logger:     logger,
		auth:       auth,
		recovery:   recovery,
		posts:      posts,
		forms:      forms,
		store:      store,
		mail:       mail,
		adminEmail: cfg.AdminEmail,
		contactTo:  cfg.ContactTo,
		pacing:     cfg.PacingDelay,
	}
}

// Routes returns the chi router with all web routes configured.
func (h *WebHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Session(h.store, h.auth))

	// Static files
	fileServer := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/", h.Home)
		r.Get("/about_us", h.About)
		r.Get("/contact_with_us", h.ContactPage)
		r.Post("/contact_with_us", h.Contact)

		r.Get("/post/{id}", h.PostPage)
		r.Post("/post/{id}", h.AddComment)

		r.Get("/register", h.RegisterPage)
		r.Post("/register", h.Register)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)

		r.Get("/forgot_password", h.ForgotPasswordPage)
		r.Post("/forgot_password", h.ForgotPassword)
		r.Get("/forgot_password/verification", h.VerifyCodePage)
		r.Post("/forgot_password/verification", h.VerifyCode)

		r.Get("/health", h.Health)
	})

	// Login-required routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/logout", h.Logout)
		r.Get("/reset", h.ResetPage)
		r.Post("/reset", h.Reset)
		r.Get("/delete", h.DeleteAccountPage)
		r.Post("/delete", h.DeleteAccount)
		r.Get("/delete_comment/{id}/{post_id}", h.DeleteComment)
	})

	// Admin-only routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.adminEmail))

		r.Get("/new_post", h.NewPostPage)
		r.Post("/new_post", h.NewPost)
		r.Get("/edit-post/{id}", h.EditPostPage)
		r.Post("/edit-post/{id}", h.EditPost)
		r.Get("/are_you_sure/{id}/{name}", h.DeletePostPage)
		r.Post("/are_you_sure/{id}/{name}", h.DeletePost)
	})

	return r
}

// render wraps page content in the base layout with navigation state
// derived from the request.
func (h *WebHandler) render(w http.ResponseWriter, r *http.Request, title string, content templ.Component) {
	nav := layouts.NavData{
		Flash: r.URL.Query().Get("flash"),
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		nav.LoggedIn = true
		nav.UserName = user.Name
		nav.IsAdmin = user.Email == h.adminEmail
	}
	templ.Handler(layouts.Base(title, nav, content)).ServeHTTP(w, r)
}

// pace applies the configured UX throttle.
func (h *WebHandler) pace() {
	if h.pacing > 0 {
		time.Sleep(h.pacing)
	}
}

// Health responds to liveness probes.
func (h *WebHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
