package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/streak"
)

var (
	ErrCompletionNotFound  = errors.New("habit completion not found")
	ErrDuplicateCompletion = errors.New("habit already completed for this day")
)

type CompletionRepository interface {
	Create(ctx context.Context, completion *model.HabitCompletion) error
	ByDate(ctx context.Context, habitID string, date streak.Date) (*model.HabitCompletion, error)
	Completions(ctx context.Context, habitID string) ([]*model.HabitCompletion, error)
	CompletionsSince(ctx context.Context, habitID string, from streak.Date) ([]*model.HabitCompletion, error)
	ForHabits(ctx context.Context, habitIDs []string) (map[string][]*model.HabitCompletion, error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

// Create inserts a completion. The (habit_id, completion_date) unique
// constraint is reported as ErrDuplicateCompletion.
func (r *completionRepository) Create(ctx context.Context, completion *model.HabitCompletion) error {
	query := `INSERT INTO habit_completions (id, habit_id, completion_date, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		completion.ID,
		completion.HabitID,
		completion.CompletionDate,
		completion.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCompletion
		}
		return err
	}

	return nil
}

func (r *completionRepository) ByDate(ctx context.Context, habitID string, date streak.Date) (*model.HabitCompletion, error) {
	completion := &model.HabitCompletion{}
	query := `SELECT * FROM habit_completions WHERE habit_id = $1 AND completion_date = $2`

	err := r.db.GetContext(ctx, completion, query, habitID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompletionNotFound
	}
	if err != nil {
		return nil, err
	}

	return completion, nil
}

func (r *completionRepository) Completions(ctx context.Context, habitID string) ([]*model.HabitCompletion, error) {
	completions := []*model.HabitCompletion{}
	query := `SELECT * FROM habit_completions WHERE habit_id = $1 ORDER BY completion_date ASC`

	err := r.db.SelectContext(ctx, &completions, query, habitID)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

func (r *completionRepository) CompletionsSince(ctx context.Context, habitID string, from streak.Date) ([]*model.HabitCompletion, error) {
	completions := []*model.HabitCompletion{}
	query := `SELECT * FROM habit_completions WHERE habit_id = $1 AND completion_date >= $2 ORDER BY completion_date ASC`

	err := r.db.SelectContext(ctx, &completions, query, habitID, from)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

// ForHabits loads completions for many habits in one query, keyed by habit id.
func (r *completionRepository) ForHabits(ctx context.Context, habitIDs []string) (map[string][]*model.HabitCompletion, error) {
	byHabit := make(map[string][]*model.HabitCompletion, len(habitIDs))
	if len(habitIDs) == 0 {
		return byHabit, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM habit_completions WHERE habit_id IN (?) ORDER BY completion_date ASC`, habitIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var completions []*model.HabitCompletion
	err = r.db.SelectContext(ctx, &completions, query, args...)
	if err != nil {
		return nil, err
	}

	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	return byHabit, nil
}

// isUniqueViolation works for both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}
