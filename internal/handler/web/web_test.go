package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"

	"github.com/daybreakhq/daybreak/internal/models"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/service"
	"github.com/daybreakhq/daybreak/internal/validation"
)

const testAdminEmail = "admin@example.com"

// --- Mock Services ---

type mockAuthService struct {
	registerFunc         func(ctx context.Context, req service.RegisterRequest) (*models.User, string, error)
	loginFunc            func(ctx context.Context, email, password string) (*models.User, string, error)
	loginByEmailFunc     func(ctx context.Context, email string) (*models.User, string, error)
	getUserBySessionFunc func(ctx context.Context, sessionID string) (*models.User, error)
	resetPasswordFunc    func(ctx context.Context, userID int64, newPassword string) error
	deleteAccountFunc    func(ctx context.Context, userID int64) (int64, int64, error)
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, string, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return &models.User{ID: 1, Email: req.Email, Name: req.Name}, "sess-1", nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return &models.User{ID: 1, Email: email, Name: "Jane Austen"}, "sess-1", nil
}

func (m *mockAuthService) LoginByEmail(ctx context.Context, email string) (*models.User, string, error) {
	if m.loginByEmailFunc != nil {
		return m.loginByEmailFunc(ctx, email)
	}
	return &models.User{ID: 1, Email: email, Name: "Jane Austen"}, "sess-1", nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error { return nil }

func (m *mockAuthService) GetUserBySession(ctx context.Context, sessionID string) (*models.User, error) {
	if m.getUserBySessionFunc != nil {
		return m.getUserBySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockAuthService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if m.resetPasswordFunc != nil {
		return m.resetPasswordFunc(ctx, userID, newPassword)
	}
	return nil
}

func (m *mockAuthService) DeleteAccount(ctx context.Context, userID int64) (int64, int64, error) {
	if m.deleteAccountFunc != nil {
		return m.deleteAccountFunc(ctx, userID)
	}
	return 0, 0, nil
}

func (m *mockAuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockRecoveryService struct {
	startFunc  func(ctx context.Context, email string) (string, error)
	verifyFunc func(ctx context.Context, stateID, code string) (*models.User, service.VerifyResult, error)
}

func (m *mockRecoveryService) Start(ctx context.Context, email string) (string, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, email)
	}
	return "state-1", nil
}

func (m *mockRecoveryService) Verify(ctx context.Context, stateID, code string) (*models.User, service.VerifyResult, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, stateID, code)
	}
	return nil, service.VerifyMismatch, nil
}

type mockPostService struct {
	listPostsFunc func(ctx context.Context) ([]*models.Post, error)
	getPostFunc   func(ctx context.Context, id int64) (*models.Post, error)
}

func (m *mockPostService) CreatePost(ctx context.Context, authorID int64, title, subtitle, imgURL, body string) (*models.Post, error) {
	return &models.Post{ID: 1, AuthorID: authorID, Title: title}, nil
}

func (m *mockPostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	if m.getPostFunc != nil {
		return m.getPostFunc(ctx, id)
	}
	return &models.Post{ID: id, Title: "Morning Light Over Quiet Hills"}, nil
}

func (m *mockPostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(ctx)
	}
	return nil, nil
}

func (m *mockPostService) UpdatePost(ctx context.Context, id int64, title, subtitle, imgURL, body string) (*models.Post, error) {
	return &models.Post{ID: id, Title: title}, nil
}

func (m *mockPostService) DeletePost(ctx context.Context, id int64) error { return nil }

func (m *mockPostService) AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	return &models.Comment{ID: 1, PostID: postID, AuthorID: authorID, Text: text}, nil
}

func (m *mockPostService) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return nil, nil
}

func (m *mockPostService) DeleteComment(ctx context.Context, id, requesterID int64) error { return nil }

type mockMailSender struct {
	sendFunc func(ctx context.Context, to, subject, body string) error
}

func (m *mockMailSender) Send(ctx context.Context, to, subject, body string) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, to, subject, body)
	}
	return nil
}

// --- Harness ---

type webTestEnv struct {
	auth     *mockAuthService
	recovery *mockRecoveryService
	posts    *mockPostService
	mail     *mockMailSender
	handler  http.Handler
}

func newWebTestEnv() *webTestEnv {
	auth := &mockAuthService{}
	recovery := &mockRecoveryService{}
	posts := &mockPostService{}
	mail := &mockMailSender{}

	store := sessions.NewCookieStore([]byte("test-secret"))
	h := NewWebHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		auth,
		recovery,
		posts,
		validation.New(),
		store,
		mail,
		Config{AdminEmail: testAdminEmail, ContactTo: "inbox@example.com"},
	)

	return &webTestEnv{
		auth:     auth,
		recovery: recovery,
		posts:    posts,
		mail:     mail,
		handler:  h.Routes(),
	}
}

func postForm(path string, values url.Values, cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// loginAndGetCookie drives the login handler and returns the session
// cookie it set.
func (env *webTestEnv) loginAndGetCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, postForm("/login", url.Values{
		"email":    {"jane@example.com"},
		"password": {"Aa1!aaaaaa"},
	}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "daybreak_session" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// --- Tests ---

func TestRegister(t *testing.T) {
	t.Run("weak password redisplays the form", func(t *testing.T) {
		env := newWebTestEnv()
		registerCalled := false
		env.auth.registerFunc = func(ctx context.Context, req service.RegisterRequest) (*models.User, string, error) {
			registerCalled = true
			return nil, "", nil
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/register", url.Values{
			"name":     {"Jane Austen"},
			"email":    {"jane@example.com"},
			"password": {"alllowercase1!"},
		}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if registerCalled {
			t.Error("service called despite validation failure")
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Password must contain at least one uppercase letter") {
			t.Error("validation message missing from response")
		}
		if !strings.Contains(body, `value="jane@example.com"`) {
			t.Error("email field not round-tripped")
		}
	})

	t.Run("duplicate email clears the email field", func(t *testing.T) {
		env := newWebTestEnv()
		env.auth.registerFunc = func(ctx context.Context, req service.RegisterRequest) (*models.User, string, error) {
			return nil, "", weberrors.NewConflictError("email", "The user with such email already exists.")
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/register", url.Values{
			"name":     {"Jane Austen"},
			"email":    {"jane@example.com"},
			"password": {"Aa1!aaaaaa"},
		}))

		body := rec.Body.String()
		if !strings.Contains(body, "The user with such email already exists.") {
			t.Error("conflict message missing")
		}
		if strings.Contains(body, `value="jane@example.com"`) {
			t.Error("email field not cleared after conflict")
		}
		if !strings.Contains(body, `value="Jane Austen"`) {
			t.Error("name field not round-tripped")
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("success sets cookie and redirects home", func(t *testing.T) {
		env := newWebTestEnv()
		cookie := env.loginAndGetCookie(t)
		if cookie.Value == "" {
			t.Error("session cookie is empty")
		}
	})

	t.Run("wrong password redisplays with message", func(t *testing.T) {
		env := newWebTestEnv()
		env.auth.loginFunc = func(ctx context.Context, email, password string) (*models.User, string, error) {
			return nil, "", weberrors.NewAuthError("Wrong password, try again.")
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/login", url.Values{
			"email":    {"jane@example.com"},
			"password": {"nope"},
		}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "Wrong password, try again.") {
			t.Error("auth message missing")
		}
	})
}

func TestAddComment_Anonymous(t *testing.T) {
	env := newWebTestEnv()

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, postForm("/post/1", url.Values{
		"comment": {"This comment is long enough to pass validation rules."},
	}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login") {
		t.Errorf("Location = %q, want /login redirect", loc)
	}
	if !strings.Contains(loc, url.QueryEscape("You need to login or register to comment.")) {
		t.Errorf("Location = %q, missing flash message", loc)
	}
}

func TestAdminGuard(t *testing.T) {
	t.Run("anonymous gets 403", func(t *testing.T) {
		env := newWebTestEnv()

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/new_post", nil))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
		if loc := rec.Header().Get("Location"); loc != "" {
			t.Errorf("Location = %q, want no redirect", loc)
		}
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		env := newWebTestEnv()
		env.auth.getUserBySessionFunc = func(ctx context.Context, sessionID string) (*models.User, error) {
			return &models.User{ID: 1, Email: "jane@example.com", Name: "Jane Austen"}, nil
		}
		cookie := env.loginAndGetCookie(t)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/new_post", nil)
		r.AddCookie(cookie)
		env.handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("admin reaches the editor", func(t *testing.T) {
		env := newWebTestEnv()
		env.auth.getUserBySessionFunc = func(ctx context.Context, sessionID string) (*models.User, error) {
			return &models.User{ID: 1, Email: testAdminEmail, Name: "Site Owner"}, nil
		}
		cookie := env.loginAndGetCookie(t)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/new_post", nil)
		r.AddCookie(cookie)
		env.handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestVerifyCode(t *testing.T) {
	// startRecovery drives step 1 and returns the recovery cookie.
	startRecovery := func(t *testing.T, env *webTestEnv) *http.Cookie {
		t.Helper()
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/forgot_password", url.Values{
			"email": {"jane@example.com"},
		}))
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("forgot_password status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		for _, c := range rec.Result().Cookies() {
			if c.Name == RecoveryCookieName {
				return c
			}
		}
		t.Fatal("no recovery cookie set")
		return nil
	}

	t.Run("lockout redirects to step one", func(t *testing.T) {
		env := newWebTestEnv()
		cookie := startRecovery(t, env)
		env.recovery.verifyFunc = func(ctx context.Context, stateID, code string) (*models.User, service.VerifyResult, error) {
			return nil, service.VerifyLockedOut, nil
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/forgot_password/verification", url.Values{
			"code": {"wrong1"},
		}, cookie))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		loc := rec.Header().Get("Location")
		if !strings.HasPrefix(loc, "/forgot_password") {
			t.Errorf("Location = %q, want /forgot_password redirect", loc)
		}
		if !strings.Contains(loc, url.QueryEscape("Too many attempts. Try again now.")) {
			t.Errorf("Location = %q, missing lockout message", loc)
		}
	})

	t.Run("match logs in and redirects to reset", func(t *testing.T) {
		env := newWebTestEnv()
		cookie := startRecovery(t, env)
		env.recovery.verifyFunc = func(ctx context.Context, stateID, code string) (*models.User, service.VerifyResult, error) {
			return &models.User{ID: 1, Email: "jane@example.com"}, service.VerifyOK, nil
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/forgot_password/verification", url.Values{
			"code": {"AbCdE1"},
		}, cookie))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/reset" {
			t.Errorf("Location = %q, want /reset", loc)
		}
	})

	t.Run("mismatch redisplays with message", func(t *testing.T) {
		env := newWebTestEnv()
		cookie := startRecovery(t, env)

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/forgot_password/verification", url.Values{
			"code": {"wrong1"},
		}, cookie))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "Codes aren&#39;t matching, try again.") {
			t.Error("mismatch message missing from response")
		}
	})

	t.Run("no recovery cookie counts as an attempt", func(t *testing.T) {
		env := newWebTestEnv()
		var gotStateID string
		env.recovery.verifyFunc = func(ctx context.Context, stateID, code string) (*models.User, service.VerifyResult, error) {
			gotStateID = stateID
			return nil, service.VerifyMismatch, nil
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/forgot_password/verification", url.Values{
			"code": {"wrong1"},
		}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if gotStateID == "" {
			t.Error("verification ran without minting a state")
		}
		var minted bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == RecoveryCookieName && c.MaxAge >= 0 {
				minted = true
			}
		}
		if !minted {
			t.Error("no recovery cookie set for the fresh state")
		}
		if !strings.Contains(rec.Body.String(), "Codes aren&#39;t matching, try again.") {
			t.Error("mismatch message missing from response")
		}
	})
}

func TestContact(t *testing.T) {
	t.Run("relays the message to the site inbox", func(t *testing.T) {
		env := newWebTestEnv()
		var sentTo, sentSubject, sentBody string
		env.mail.sendFunc = func(ctx context.Context, to, subject, body string) error {
			sentTo, sentSubject, sentBody = to, subject, body
			return nil
		}

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, postForm("/contact_with_us", url.Values{
			"name":    {"Jane Austen"},
			"email":   {"jane@example.com"},
			"phone":   {"+1 555 0100"},
			"message": {"I enjoyed the latest post."},
		}))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if sentTo != "inbox@example.com" {
			t.Errorf("mail to = %q", sentTo)
		}
		if sentSubject != "New message from Jane Austen" {
			t.Errorf("subject = %q", sentSubject)
		}
		if !strings.Contains(sentBody, "Phone Number: +1 555 0100") {
			t.Errorf("body = %q", sentBody)
		}
		if !strings.Contains(rec.Body.String(), "Successfully sent your message!") {
			t.Error("thank-you state missing")
		}
	})
}
