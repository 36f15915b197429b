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

// LiveNotificationStore manages the in-app feed.
type LiveNotificationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewLiveNotificationStore(db *sql.DB, log logger.Logger) *LiveNotificationStore {
	return &LiveNotificationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "live_notifications"}),
	}
}

// Insert appends a feed entry. There is no dedupe key, so a caller that
// retries after a partial failure can produce a duplicate entry.
func (s *LiveNotificationStore) Insert(ctx context.Context, n *models.LiveNotification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO live_notifications (id, professional_id, title, message, type, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.ProfessionalID, n.Title, n.Message, n.Type, jsonbArg(n.Data), n.IsRead, n.CreatedAt)
	if err != nil {
		return apperrors.NewNotificationInsertFailedError(n.ID, err)
	}
	return nil
}

// ListByProfessional returns the feed newest first.
func (s *LiveNotificationStore) ListByProfessional(ctx context.Context, professionalID string) ([]models.LiveNotification, error) {
	query := `
		SELECT id, professional_id, title, message, type, data, is_read, created_at
		FROM live_notifications
		WHERE professional_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, professionalID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list feed", err)
	}
	defer rows.Close()

	var out []models.LiveNotification
	for rows.Next() {
		var n models.LiveNotification
		var data []byte
		if err := rows.Scan(&n.ID, &n.ProfessionalID, &n.Title, &n.Message, &n.Type, &data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan feed entry", err)
		}
		n.Data = data
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate feed", err)
	}
	return out, nil
}

// MarkRead marks a single entry read.
func (s *LiveNotificationStore) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE live_notifications SET is_read = TRUE WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return apperrors.NewQueryExecutionFailedError("mark read", err)
	}
	return nil
}

// MarkAllRead marks every unread entry of a professional read and
// returns how many rows changed.
func (s *LiveNotificationStore) MarkAllRead(ctx context.Context, professionalID string) (int64, error) {
	query := `UPDATE live_notifications SET is_read = TRUE WHERE professional_id = $1 AND is_read = FALSE`
	res, err := s.db.ExecContext(ctx, query, professionalID)
	if err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("mark all read", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("mark all read", err)
	}
	return affected, nil
}
