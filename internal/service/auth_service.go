// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daybreakhq/daybreak/internal/models"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/pkg/gravatar"
	"github.com/daybreakhq/daybreak/internal/repository"
)

// RegisterRequest carries the already-validated registration fields.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// AuthService defines the authentication and account lifecycle interface.
type AuthService interface {
	// Register creates a user and an authenticated session for them.
	Register(ctx context.Context, req RegisterRequest) (*models.User, string, error)

	// Login verifies credentials and returns the user plus a session ID.
	Login(ctx context.Context, email, password string) (*models.User, string, error)

	// LoginByEmail establishes a session without a password check. Only
	// the recovery flow calls this, after a verified one-time code.
	LoginByEmail(ctx context.Context, email string) (*models.User, string, error)

	// Logout invalidates a server-side session.
	Logout(ctx context.Context, sessionID string) error

	// GetUserBySession resolves a session ID to its user, or nil when the
	// session is unknown or expired.
	GetUserBySession(ctx context.Context, sessionID string) (*models.User, error)

	// ResetPassword overwrites a user's password hash.
	ResetPassword(ctx context.Context, userID int64, newPassword string) error

	// DeleteAccount removes the user and everything they authored.
	DeleteAccount(ctx context.Context, userID int64) (posts int64, comments int64, err error)

	// PurgeExpiredSessions removes session rows past their expiry.
	// GetUserBySession already rejects stale rows; this reclaims them.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	hasher        *PasswordHasher
	sessionExpiry time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher *PasswordHasher,
	sessionExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		hasher:        hasher,
		sessionExpiry: sessionExpiry,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		AvatarURL:    gravatar.URL(req.Email),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, "", weberrors.NewConflictError("email", "The user with such email already exists.")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	sessionID, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, sessionID, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", weberrors.NewAuthError("The email wasn't found in the database.")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", weberrors.NewAuthError("Wrong password, try again.")
	}

	sessionID, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, sessionID, nil
}

func (s *authService) LoginByEmail(ctx context.Context, email string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", weberrors.NewAuthError("The email wasn't found in the database.")
	}

	sessionID, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, sessionID, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *authService) GetUserBySession(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		_ = s.sessionRepo.Delete(ctx, sessionID)
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, session.UserID)
}

func (s *authService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID int64) (int64, int64, error) {
	// Drop the user's sessions first so a concurrent request can't ride
	// a session pointing at a half-deleted account.
	if err := s.sessionRepo.DeleteByUser(ctx, userID); err != nil {
		return 0, 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	return s.userRepo.DeleteCascade(ctx, userID)
}

func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

func (s *authService) createSession(ctx context.Context, userID int64) (string, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionExpiry),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return session.ID, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Compile-time check to ensure authService implements AuthService.
var _ AuthService = (*authService)(nil)
