package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/model"
)

var _ model.AuditLogStore = (*AuditLogRepository)(nil)

type AuditLogRepository struct {
	db *Connection
}

func NewAuditLogRepository(db *Connection) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
	}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry model.AuditLog) error {
	query := `INSERT INTO audit_logs (id, user_id, screen_action, action_title, action_description, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.ScreenAction, entry.ActionTitle, entry.ActionDescription, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.AuditLog, error) {
	query := `SELECT id, user_id, screen_action, action_title, action_description, created_at
			  FROM audit_logs WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditLog
	for rows.Next() {
		var entry model.AuditLog
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ScreenAction, &entry.ActionTitle,
			&entry.ActionDescription, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit log entries: %w", err)
	}

	return entries, nil
}
