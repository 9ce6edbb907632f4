package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"goalgrid/internal/models"
)

// TaskStore persists tasks. Every read and write is scoped by owner id.
type TaskStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewTaskStore returns a TaskStore stamping new tasks with now().
// A nil clock uses time.Now.
func NewTaskStore(s *Store, now func() time.Time) *TaskStore {
	if now == nil {
		now = time.Now
	}
	return &TaskStore{db: s.db, now: now}
}

func (t *TaskStore) Create(ctx context.Context, ownerID int64, text string, priority models.Priority, dueDate string) (*models.Task, error) {
	task := &models.Task{
		OwnerID:     ownerID,
		Text:        text,
		Priority:    priority,
		DueDate:     dueDate,
		Completed:   false,
		CreatedTime: t.now().Format(models.TimeLayout),
	}

	row := t.db.QueryRowContext(ctx, `INSERT INTO
			task(owner_id, text, priority, due_date, completed, created_time)
			VALUES($1, $2, $3, $4, $5, $6)
			RETURNING id`,
		task.OwnerID, task.Text, string(task.Priority), task.DueDate, task.Completed, task.CreatedTime)

	err := row.Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return task, nil
}

// ListForOwner returns the owner's tasks in display order, see SortTasks.
func (t *TaskStore) ListForOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	results := make([]models.Task, 0)

	rows, err := t.db.QueryContext(ctx, `
		SELECT id, owner_id, text, priority, due_date, completed, created_time
		FROM task
		WHERE owner_id = $1
		ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		task := models.Task{}
		var priority string
		err = rows.Scan(&task.ID, &task.OwnerID, &task.Text, &priority, &task.DueDate, &task.Completed, &task.CreatedTime)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Priority = models.Priority(priority)

		results = append(results, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	SortTasks(results)
	return results, nil
}

// ToggleCompletion flips the completed flag of an owned task.
func (t *TaskStore) ToggleCompletion(ctx context.Context, taskID, ownerID int64) error {
	result, err := t.db.ExecContext(ctx,
		`UPDATE task
			SET completed = NOT completed
			WHERE id = $1 AND owner_id = $2`,
		taskID, ownerID)
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}

	return expectOwnedRow(result)
}

func (t *TaskStore) Delete(ctx context.Context, taskID, ownerID int64) error {
	result, err := t.db.ExecContext(ctx, "DELETE FROM task WHERE id = $1 AND owner_id = $2", taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return expectOwnedRow(result)
}

// SortTasks orders tasks incomplete first, then by priority rank, then by
// creation time. Ties keep their id order.
func SortTasks(tasks []models.Task) {
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra - rb
		}
		return strings.Compare(a.CreatedTime, b.CreatedTime)
	})
}

func expectOwnedRow(result sql.Result) error {
	err := expectRow(result)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFoundOrNotOwned
	}
	return err
}
