package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
)

// ScheduledNotificationStore persists reminders and drives their status
// transitions. MarkSent is conditional on the row still being pending so
// that concurrent dispatchers never double-send.
type ScheduledNotificationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewScheduledNotificationStore(db *sql.DB, log logger.Logger) *ScheduledNotificationStore {
	return &ScheduledNotificationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "scheduled_notifications"}),
	}
}

// Create inserts a pending reminder. The scheduled time must be in the
// future.
func (s *ScheduledNotificationStore) Create(ctx context.Context, n *models.ScheduledNotification) error {
	if !n.ScheduledAt.After(time.Now()) {
		return apperrors.NewScheduleInPastError(n.ScheduledAt)
	}

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = models.TypeReminder
	}
	n.Status = models.StatusPending
	n.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO scheduled_notifications
			(id, professional_id, title, message, type, data, status, scheduled_at, email_to, push_target, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.ProfessionalID, n.Title, n.Message, n.Type, jsonbArg(n.Data), n.Status,
		n.ScheduledAt, n.EmailTo, n.PushTarget, n.CreatedAt)
	if err != nil {
		return apperrors.NewNotificationInsertFailedError(n.ID, err)
	}

	s.logger.Info("reminder scheduled", map[string]interface{}{
		"id":          n.ID,
		"scheduledAt": n.ScheduledAt,
	})
	return nil
}

// FetchDue returns pending reminders whose scheduled time has passed,
// oldest first, capped at limit.
func (s *ScheduledNotificationStore) FetchDue(ctx context.Context, now time.Time, limit int) ([]models.ScheduledNotification, error) {
	query := `
		SELECT id, professional_id, title, message, type, data, status, scheduled_at, sent_at, email_to, push_target, error_message, created_at
		FROM scheduled_notifications
		WHERE status = 'pending' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("fetch due reminders", err)
	}
	defer rows.Close()

	var due []models.ScheduledNotification
	for rows.Next() {
		n, err := scanReminder(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan due reminder", err)
		}
		due = append(due, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate due reminders", err)
	}
	return due, nil
}

// MarkSent flips a reminder from pending to sent. It returns false when
// zero rows matched, meaning another writer already moved the row out of
// pending.
func (s *ScheduledNotificationStore) MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	query := `
		UPDATE scheduled_notifications
		SET status = 'sent', sent_at = $2
		WHERE id = $1 AND status = 'pending'`

	res, err := s.db.ExecContext(ctx, query, id, sentAt)
	if err != nil {
		return false, apperrors.NewQueryExecutionFailedError("mark reminder sent", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewQueryExecutionFailedError("mark reminder sent", err)
	}
	return affected == 1, nil
}

// MarkFailed records a delivery failure, keeping the cause on the row
// so a failed reminder is diagnosable from the table itself.
func (s *ScheduledNotificationStore) MarkFailed(ctx context.Context, id, errMsg string) error {
	query := `
		UPDATE scheduled_notifications
		SET status = 'failed', error_message = $2
		WHERE id = $1 AND status = 'pending'`

	if _, err := s.db.ExecContext(ctx, query, id, errMsg); err != nil {
		return apperrors.NewQueryExecutionFailedError("mark reminder failed", err)
	}
	return nil
}

// Cancel retires a pending reminder. Cancelling a reminder that already
// went out is rejected.
func (s *ScheduledNotificationStore) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE scheduled_notifications
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("cancel reminder", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("cancel reminder", err)
	}
	if affected == 0 {
		return apperrors.NewReminderNotPendingError(id)
	}
	return nil
}

// ListByProfessional returns all reminders for a professional, newest
// schedule first.
func (s *ScheduledNotificationStore) ListByProfessional(ctx context.Context, professionalID string) ([]models.ScheduledNotification, error) {
	query := `
		SELECT id, professional_id, title, message, type, data, status, scheduled_at, sent_at, email_to, push_target, error_message, created_at
		FROM scheduled_notifications
		WHERE professional_id = $1
		ORDER BY scheduled_at DESC`

	rows, err := s.db.QueryContext(ctx, query, professionalID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list reminders", err)
	}
	defer rows.Close()

	var out []models.ScheduledNotification
	for rows.Next() {
		n, err := scanReminder(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan reminder", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate reminders", err)
	}
	return out, nil
}

func scanReminder(rows *sql.Rows) (models.ScheduledNotification, error) {
	var n models.ScheduledNotification
	var data []byte
	var sentAt sql.NullTime
	var emailTo, pushTarget, errMsg sql.NullString
	if err := rows.Scan(&n.ID, &n.ProfessionalID, &n.Title, &n.Message, &n.Type, &data,
		&n.Status, &n.ScheduledAt, &sentAt, &emailTo, &pushTarget, &errMsg, &n.CreatedAt); err != nil {
		return models.ScheduledNotification{}, err
	}
	n.Data = data
	if sentAt.Valid {
		n.SentAt = &sentAt.Time
	}
	n.EmailTo = emailTo.String
	n.PushTarget = pushTarget.String
	n.ErrorMessage = errMsg.String
	return n, nil
}

// jsonbArg passes an optional JSON document to a jsonb parameter.
func jsonbArg(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
