package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
)

// WorkoutPlanStore persists generated plans. Days are stored as a JSONB
// column since the planner owns their shape.
type WorkoutPlanStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewWorkoutPlanStore(db *sql.DB, log logger.Logger) *WorkoutPlanStore {
	return &WorkoutPlanStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "workout_plans"}),
	}
}

func (s *WorkoutPlanStore) Create(ctx context.Context, p *models.WorkoutPlan) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC()

	daysJSON, err := json.Marshal(p.Days)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("encode plan days", err)
	}

	query := `
		INSERT INTO workout_plans (id, user_id, name, type, goal, level, frequency, explanation, is_active, days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name, p.Type, p.Goal, p.Level, p.Frequency,
		p.Explanation, p.IsActive, daysJSON, p.CreatedAt)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert plan", err)
	}

	s.logger.Info("plan stored", map[string]interface{}{
		"id":   p.ID,
		"type": p.Type,
	})
	return nil
}

func (s *WorkoutPlanStore) ListByUser(ctx context.Context, userID string) ([]models.WorkoutPlan, error) {
	query := `
		SELECT id, user_id, name, type, goal, level, frequency, explanation, is_active, days, created_at
		FROM workout_plans
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list plans", err)
	}
	defer rows.Close()

	var out []models.WorkoutPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate plans", err)
	}
	return out, nil
}

func (s *WorkoutPlanStore) Get(ctx context.Context, id string) (*models.WorkoutPlan, error) {
	query := `
		SELECT id, user_id, name, type, goal, level, frequency, explanation, is_active, days, created_at
		FROM workout_plans
		WHERE id = $1`

	return scanPlan(s.db.QueryRowContext(ctx, query, id))
}

// Activate makes the given plan the user's single active plan inside one
// transaction.
func (s *WorkoutPlanStore) Activate(ctx context.Context, userID, planID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("begin activate", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE workout_plans SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`,
		userID); err != nil {
		return apperrors.NewQueryExecutionFailedError("deactivate plans", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE workout_plans SET is_active = TRUE WHERE id = $1 AND user_id = $2`,
		planID, userID)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("activate plan", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("activate plan", err)
	}
	if affected == 0 {
		return apperrors.NewPlanNotFoundError(planID)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewQueryExecutionFailedError("commit activate", err)
	}
	return nil
}

func (s *WorkoutPlanStore) Delete(ctx context.Context, userID, planID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM workout_plans WHERE id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete plan", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete plan", err)
	}
	if affected == 0 {
		return apperrors.NewPlanNotFoundError(planID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*models.WorkoutPlan, error) {
	var p models.WorkoutPlan
	var daysJSON []byte
	var explanation sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Type, &p.Goal, &p.Level,
		&p.Frequency, &explanation, &p.IsActive, &daysJSON, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewPlanNotFoundError("")
		}
		return nil, apperrors.NewQueryExecutionFailedError("scan plan", err)
	}
	p.Explanation = explanation.String
	if len(daysJSON) > 0 {
		if err := json.Unmarshal(daysJSON, &p.Days); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("decode plan days", err)
		}
	}
	return &p, nil
}
