// Package tasks binds the signed-in user to task storage and builds the
// board view.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goalgrid/internal/models"
	"goalgrid/internal/store"
)

var ErrInvalidTask = errors.New("invalid task")

// Repository is the task storage the service runs on.
type Repository interface {
	Create(ctx context.Context, ownerID int64, text string, priority models.Priority, dueDate string) (*models.Task, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]models.Task, error)
	ToggleCompletion(ctx context.Context, taskID, ownerID int64) error
	Delete(ctx context.Context, taskID, ownerID int64) error
}

// Suggester produces suggestions for the given moment and task list.
type Suggester interface {
	At(now time.Time, tasks []models.Task) []string
}

type Service struct {
	repo    Repository
	suggest Suggester
}

func NewService(repo Repository, suggest Suggester) *Service {
	return &Service{repo: repo, suggest: suggest}
}

// DayGroup is one calendar entry: the tasks due on Date in board order.
type DayGroup struct {
	Date  string
	Tasks []models.Task
}

// Board is everything the main page renders.
type Board struct {
	Today       string
	Calendar    []DayGroup
	AllDone     bool
	Suggestions []string
}

// Add validates and stores a task for user. Text is trimmed, priority must
// be High, Medium or Low, and dueDate must be a YYYY-MM-DD date.
func (s *Service) Add(ctx context.Context, user *models.User, text, priority, dueDate string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidTask)
	}

	p := models.Priority(priority)
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, priority)
	}

	if _, err := time.Parse(models.DateLayout, dueDate); err != nil {
		return nil, fmt.Errorf("%w: due date %q", ErrInvalidTask, dueDate)
	}

	return s.repo.Create(ctx, user.ID, text, p, dueDate)
}

func (s *Service) List(ctx context.Context, user *models.User) ([]models.Task, error) {
	return s.repo.ListForOwner(ctx, user.ID)
}

// Toggle flips completion of one of user's tasks. Missing or foreign ids
// are ignored.
func (s *Service) Toggle(ctx context.Context, user *models.User, taskID int64) error {
	return ignoreNotOwned(s.repo.ToggleCompletion(ctx, taskID, user.ID))
}

// Delete removes one of user's tasks. Missing or foreign ids are ignored.
func (s *Service) Delete(ctx context.Context, user *models.User, taskID int64) error {
	return ignoreNotOwned(s.repo.Delete(ctx, taskID, user.ID))
}

// Board loads user's tasks and derives the board for the moment now.
func (s *Service) Board(ctx context.Context, user *models.User, now time.Time) (*Board, error) {
	list, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}

	today := now.Format(models.DateLayout)
	board := &Board{
		Today:    today,
		Calendar: BuildCalendar(list),
		AllDone:  AllDoneToday(list, today),
	}
	if s.suggest != nil {
		board.Suggestions = s.suggest.At(now, list)
	}

	return board, nil
}

// BuildCalendar groups tasks by due date. Dates appear in the order they are
// first met and each group keeps the input order.
func BuildCalendar(tasks []models.Task) []DayGroup {
	groups := make([]DayGroup, 0)
	index := make(map[string]int)

	for _, task := range tasks {
		i, ok := index[task.DueDate]
		if !ok {
			i = len(groups)
			index[task.DueDate] = i
			groups = append(groups, DayGroup{Date: task.DueDate})
		}
		groups[i].Tasks = append(groups[i].Tasks, task)
	}

	return groups
}

// AllDoneToday is true when at least one task is due today and every one of
// them is completed.
func AllDoneToday(tasks []models.Task, today string) bool {
	due := 0
	for _, task := range tasks {
		if task.DueDate != today {
			continue
		}
		if !task.Completed {
			return false
		}
		due++
	}
	return due > 0
}

func ignoreNotOwned(err error) error {
	if errors.Is(err, store.ErrNotFoundOrNotOwned) {
		return nil
	}
	return err
}
