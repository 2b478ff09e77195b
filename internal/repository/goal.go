package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/keystone/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalFilter narrows an owner's goals. Zero fields are ignored.
type GoalFilter struct {
	Level  model.Level
	Status model.Status
}

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string, filter GoalFilter) ([]*model.Goal, error)
	CountChildren(ctx context.Context, userID, goalID string) (int, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, level, title, description, status, parent_id, specific_measure,
	                             target_date, is_hypothesis, hypothesis_test, hypothesis_metric, learnings,
	                             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Level,
		goal.Title,
		goal.Description,
		goal.Status,
		goal.ParentID,
		goal.SpecificMeasure,
		goal.TargetDate,
		goal.IsHypothesis,
		goal.HypothesisTest,
		goal.HypothesisMetric,
		goal.Learnings,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string, filter GoalFilter) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Level != "" {
		args = append(args, filter.Level)
		where = append(where, fmt.Sprintf("level = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT * FROM goals WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountChildren(ctx context.Context, userID, goalID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND parent_id = $2`
	err := r.db.GetContext(ctx, &count, query, userID, goalID)
	return count, err
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, status = $3, specific_measure = $4, target_date = $5,
	              is_hypothesis = $6, hypothesis_test = $7, hypothesis_metric = $8, learnings = $9, updated_at = $10
	          WHERE id = $11 AND user_id = $12`

	result, err := r.db.ExecContext(ctx, query,
		goal.Title,
		goal.Description,
		goal.Status,
		goal.SpecificMeasure,
		goal.TargetDate,
		goal.IsHypothesis,
		goal.HypothesisTest,
		goal.HypothesisMetric,
		goal.Learnings,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
