package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault-server/internal/model"
)

func TestAuditLogRepository_Create(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewAuditLogRepository(conn)

	entry := model.AuditLog{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		ScreenAction:      "Login",
		ActionTitle:       "Login Failed",
		ActionDescription: "Login attempt failed for a@b.c. Attempts: 1/5",
		CreatedAt:         time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.UserID, entry.ScreenAction, entry.ActionTitle, entry.ActionDescription, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_GetByUserID(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewAuditLogRepository(conn)

	userID := uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "screen_action", "action_title", "action_description", "created_at"}).
		AddRow(uuid.New(), userID, "Login", "Successful Login", "User a@b.c authenticated", now).
		AddRow(uuid.New(), userID, "Register", "New User", "User a@b.c registered", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, user_id, screen_action, action_title, action_description, created_at").
		WithArgs(userID).
		WillReturnRows(rows)

	entries, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Successful Login", entries[0].ActionTitle)
	assert.Equal(t, userID, entries[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_GetByUserID_Empty(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewAuditLogRepository(conn)

	userID := uuid.New()
	mock.ExpectQuery("SELECT id, user_id, screen_action").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "screen_action", "action_title", "action_description", "created_at"}))

	entries, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}
