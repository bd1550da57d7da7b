package service

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

const (
	// maxActionLen bounds the screen action and action title fields.
	maxActionLen = 50
	// maxDescriptionLen bounds the action description field.
	maxDescriptionLen = 500
)

// Audit writes sanitized, immutable records of significant user actions.
type Audit struct {
	store  model.AuditLogStore
	logger *logger.Logger
}

// NewAudit creates a new Audit sink.
func NewAudit(store model.AuditLogStore, logger *logger.Logger) *Audit {
	return &Audit{
		store:  store,
		logger: logger,
	}
}

// Record sanitizes the free-text fields and writes one audit entry with a UTC
// timestamp. A failed write is logged but never fails the caller's request;
// the user-visible outcome of an action does not depend on the audit trail.
func (a *Audit) Record(ctx context.Context, userID uuid.UUID, screenAction, actionTitle, actionDescription string) {
	entry := model.AuditLog{
		ID:                uuid.New(),
		UserID:            userID,
		ScreenAction:      Sanitize(screenAction, maxActionLen),
		ActionTitle:       Sanitize(actionTitle, maxActionLen),
		ActionDescription: Sanitize(actionDescription, maxDescriptionLen),
		CreatedAt:         time.Now().UTC(),
	}

	if err := a.store.Create(ctx, entry); err != nil {
		a.logger.Error("Audit sink: failed to write audit entry",
			"user_id", userID,
			"screen_action", entry.ScreenAction,
			"error", err.Error())
	}
}

// ListByUser returns the audit entries referencing the given user.
func (a *Audit) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.AuditLog, error) {
	entries, err := a.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

var controlReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// Sanitize neutralizes user-controlled text before it is persisted: newlines,
// carriage returns and tabs collapse to single spaces, HTML-reserved
// characters are entity-encoded, the result is truncated to limit runes and
// trimmed. A blank input sanitizes to the empty string.
func Sanitize(input string, limit int) string {
	s := controlReplacer.Replace(input)
	s = html.EscapeString(s)

	if runes := []rune(s); len(runes) > limit {
		s = string(runes[:limit])
	}

	return strings.TrimSpace(s)
}
