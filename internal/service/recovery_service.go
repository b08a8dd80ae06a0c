package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/daybreakhq/daybreak/internal/database"
	"github.com/daybreakhq/daybreak/internal/mailer"
	"github.com/daybreakhq/daybreak/internal/models"
	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
	"github.com/daybreakhq/daybreak/internal/pkg/ulid"
	"github.com/daybreakhq/daybreak/internal/repository"
)

const (
	// codeAlphabet is the set a one-time code is drawn from, uniformly.
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// codeLength is the length of a one-time code.
	codeLength = 6
	// maxAttempts is the wrong-submission count that triggers a lockout.
	maxAttempts = 6
)

// VerifyResult is the outcome of a one-time code submission.
type VerifyResult int

const (
	// VerifyOK means the code matched; the caller holds the user.
	VerifyOK VerifyResult = iota
	// VerifyMismatch means the code didn't match; the attempt was counted.
	VerifyMismatch
	// VerifyLockedOut means the sixth wrong attempt was reached: the
	// pending code is discarded and the counter reset.
	VerifyLockedOut
)

// RecoveryStore persists the recovery challenge state server-side,
// keyed by an opaque ID the browser carries in its signed cookie.
type RecoveryStore interface {
	Save(ctx context.Context, id string, state *models.RecoveryState) error
	Load(ctx context.Context, id string) (*models.RecoveryState, error)
	Delete(ctx context.Context, id string) error
}

// RecoveryService runs the password-recovery challenge state machine.
type RecoveryService interface {
	// Start looks up the email, generates a one-time code, stores the
	// pending state and dispatches the code by mail. It returns the
	// state ID for the browser's cookie.
	Start(ctx context.Context, email string) (string, error)

	// Verify compares a submitted code against the pending state. A
	// missing state counts as a mismatch attempt.
	Verify(ctx context.Context, stateID, code string) (*models.User, VerifyResult, error)
}

type recoveryService struct {
	userRepo repository.UserRepository
	store    RecoveryStore
	sender   mailer.Sender
}

// NewRecoveryService creates a new recovery service.
func NewRecoveryService(userRepo repository.UserRepository, store RecoveryStore, sender mailer.Sender) RecoveryService {
	return &recoveryService{
		userRepo: userRepo,
		store:    store,
		sender:   sender,
	}
}

func (s *recoveryService) Start(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", weberrors.NewAuthError("The email wasn't found in the database.")
	}

	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	stateID := ulid.New()
	state := &models.RecoveryState{
		Email: user.Email,
		Code:  code,
	}
	if err := s.store.Save(ctx, stateID, state); err != nil {
		return "", fmt.Errorf("failed to save recovery state: %w", err)
	}

	body := fmt.Sprintf("Confirmation code: %s", code)
	if err := s.sender.Send(ctx, user.Email, "Confirmation code.", body); err != nil {
		// A dead mail relay must never look like success. Discard the
		// pending code so the user can retry cleanly.
		_ = s.store.Delete(ctx, stateID)
		return "", weberrors.NewDependencyError("mail relay", err)
	}

	return stateID, nil
}

func (s *recoveryService) Verify(ctx context.Context, stateID, code string) (*models.User, VerifyResult, error) {
	state, err := s.store.Load(ctx, stateID)
	if err != nil {
		return nil, VerifyMismatch, fmt.Errorf("failed to load recovery state: %w", err)
	}
	if state == nil {
		// Never went through step 1: still a countable attempt.
		state = &models.RecoveryState{}
	}

	if state.Code != "" && code == state.Code {
		user, err := s.userRepo.GetByEmail(ctx, state.Email)
		if err != nil {
			return nil, VerifyMismatch, fmt.Errorf("failed to look up user: %w", err)
		}
		if user == nil {
			return nil, VerifyMismatch, weberrors.NewAuthError("The email wasn't found in the database.")
		}
		if err := s.store.Delete(ctx, stateID); err != nil {
			return nil, VerifyMismatch, fmt.Errorf("failed to clear recovery state: %w", err)
		}
		return user, VerifyOK, nil
	}

	state.Attempts++
	if state.Attempts >= maxAttempts {
		// Lockout discards the pending code and resets the counter.
		if err := s.store.Delete(ctx, stateID); err != nil {
			return nil, VerifyMismatch, fmt.Errorf("failed to clear recovery state: %w", err)
		}
		return nil, VerifyLockedOut, nil
	}

	if err := s.store.Save(ctx, stateID, state); err != nil {
		return nil, VerifyMismatch, fmt.Errorf("failed to save recovery state: %w", err)
	}
	return nil, VerifyMismatch, nil
}

// GenerateCode draws a 6-character code uniformly from letters and digits.
func GenerateCode() (string, error) {
	out := make([]byte, codeLength)
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out), nil
}

// redisRecoveryStore keeps recovery state in Redis with a TTL, so a
// pending code vanishes with the session instead of living in a table.
type redisRecoveryStore struct {
	redis *database.Redis
	ttl   time.Duration
}

// NewRedisRecoveryStore creates a Redis-backed recovery store.
func NewRedisRecoveryStore(redis *database.Redis, ttl time.Duration) RecoveryStore {
	return &redisRecoveryStore{redis: redis, ttl: ttl}
}

func (r *redisRecoveryStore) key(id string) string {
	return "recovery:" + id
}

func (r *redisRecoveryStore) Save(ctx context.Context, id string, state *models.RecoveryState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode recovery state: %w", err)
	}
	return r.redis.Set(ctx, r.key(id), payload, r.ttl)
}

func (r *redisRecoveryStore) Load(ctx context.Context, id string) (*models.RecoveryState, error) {
	raw, err := r.redis.Get(ctx, r.key(id))
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var state models.RecoveryState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to decode recovery state: %w", err)
	}
	return &state, nil
}

func (r *redisRecoveryStore) Delete(ctx context.Context, id string) error {
	return r.redis.Delete(ctx, r.key(id))
}

// Compile-time checks.
var (
	_ RecoveryService = (*recoveryService)(nil)
	_ RecoveryStore   = (*redisRecoveryStore)(nil)
)
