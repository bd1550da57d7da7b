package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user accounts.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
}

// User represents a stored user account with authentication material.
// PasswordHash holds "base64(salt).base64(derived key)". LockedUntil uses the
// zero time as the "not locked" sentinel; a future value means the account is
// locked until that instant.
type User struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     string
	FailedLoginCount int
	LockedUntil      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Locked reports whether the account is locked at the given instant.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil.After(now)
}
