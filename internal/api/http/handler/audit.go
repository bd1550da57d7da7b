package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/api/http/middleware"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// AuditService defines audit trail read operations.
type AuditService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.AuditLog, error)
}

// Audit handles HTTP endpoints for the audit trail.
type Audit struct {
	auditService AuditService
	logger       *logger.Logger
}

// NewAudit creates a new Audit handler.
func NewAudit(auditService AuditService, logger *logger.Logger) *Audit {
	return &Audit{
		auditService: auditService,
		logger:       logger,
	}
}

type auditEntryResponse struct {
	ID                uuid.UUID `json:"id"`
	ScreenAction      string    `json:"screen_action"`
	ActionTitle       string    `json:"action_title"`
	ActionDescription string    `json:"action_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// List returns the audit entries of the authenticated user.
func (h *Audit) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "authorization required"})
		return
	}

	entries, err := h.auditService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Audit handler: listing failed",
			"user_id", userID,
			"error", err.Error())
		handleError(c, err)
		return
	}

	response := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, auditEntryResponse{
			ID:                entry.ID,
			ScreenAction:      entry.ScreenAction,
			ActionTitle:       entry.ActionTitle,
			ActionDescription: entry.ActionDescription,
			CreatedAt:         entry.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"logs": response})
}
