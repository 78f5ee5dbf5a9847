package repository

import (
	"context"
	"fmt"

	"taskboard/internal/db"
	"taskboard/internal/domain"

	"github.com/Masterminds/squirrel"
)

type TaskRepository struct {
	db db.Handle
}

func NewTaskRepository(h db.Handle) *TaskRepository {
	return &TaskRepository{db: h}
}

// List returns every task, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	query, args, err := squirrel.Select("id", "title", "description", "created_at").
		From("tasks").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	tasks := []domain.Task{}
	if err := r.db.Select(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	query, args, err := squirrel.Insert("tasks").
		Columns("title", "description").
		Values(t.Title, nullable(t.Description)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := squirrel.Select("COUNT(*)").From("tasks").ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}
	var n int64
	if err := r.db.Get(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
