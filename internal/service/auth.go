package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/lockout"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/token"
)

// PasswordHasher derives and verifies salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// Auth orchestrates registration and credential verification with
// progressive account lockout.
type Auth struct {
	userStore model.UserStore
	hasher    PasswordHasher
	tokens    model.TokenManager
	audit     *Audit
	logger    *logger.Logger
	now       func() time.Time
}

// NewAuth creates a new Auth service.
func NewAuth(
	userStore model.UserStore,
	hasher PasswordHasher,
	tokens model.TokenManager,
	audit *Audit,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a new user account. The email must not be taken.
func (a *Auth) Register(ctx context.Context, email, password string) (model.User, error) {
	a.logger.Debug("Auth service: registering user", "email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: email already registered", "email", email)
		return model.User{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.audit.Record(ctx, user.ID, "Register", "New User",
		fmt.Sprintf("User %s registered successfully", user.Email))

	a.logger.Info("Auth service: user registered", "email", email, "user_id", user.ID)

	return user, nil
}

// Login verifies credentials and issues a session token. An unknown email
// fails with the same error rendering as a wrong password so responses carry
// no account-enumeration signal; the lockout machinery only runs once a
// record is found.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	a.logger.Debug("Auth service: login attempt", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email", "email", email)
		return Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	now := a.now()
	decision := lockout.Evaluate(&user, now, func() bool {
		return a.hasher.Verify(password, user.PasswordHash)
	})

	if decision.Persist {
		user.UpdatedAt = now
		if user, err = a.userStore.Update(ctx, user); err != nil {
			return Session{}, fmt.Errorf("failed to update user: %w", err)
		}
	}

	switch decision.Result {
	case lockout.ResultAlreadyLocked:
		a.audit.Record(ctx, user.ID, "Login", "Blocked Attempt",
			fmt.Sprintf("Login attempt on locked account. Time remaining: %d minutes", decision.RemainingMinutes))
		return Session{}, &model.AccountLockedError{RemainingMinutes: decision.RemainingMinutes}

	case lockout.ResultLockTriggered:
		a.audit.Record(ctx, user.ID, "Login", "Account Locked",
			fmt.Sprintf("User %s locked for 30 minutes after repeated failed login attempts", user.Email))
		return Session{}, &model.AccountLockedError{JustLocked: true}

	case lockout.ResultInvalid:
		a.audit.Record(ctx, user.ID, "Login", "Login Failed",
			fmt.Sprintf("Login attempt failed for %s. Attempts: %d/%d",
				user.Email, user.FailedLoginCount, lockout.FailureThreshold))
		return Session{}, &model.InvalidCredentialsError{AttemptsRemaining: decision.AttemptsRemaining}
	}

	signed, err := a.tokens.GenerateSessionToken(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	a.audit.Record(ctx, user.ID, "Login", "Successful Login",
		fmt.Sprintf("User %s authenticated successfully", user.Email))

	a.logger.Info("Auth service: login successful", "email", email, "user_id", user.ID)

	return Session{
		Token:     signed,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: now.Add(token.SessionTTL),
	}, nil
}
