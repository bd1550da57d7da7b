package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditLogStore defines persistence operations for audit log entries.
// Entries are written once and never mutated or deleted.
type AuditLogStore interface {
	Create(ctx context.Context, entry AuditLog) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]AuditLog, error)
}

// AuditLog represents one immutable record of a significant user action.
// Free-text fields are sanitized before they reach the store.
type AuditLog struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ScreenAction      string
	ActionTitle       string
	ActionDescription string
	CreatedAt         time.Time
}
