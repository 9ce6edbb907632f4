package tasks

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"goalgrid/internal/models"
	"goalgrid/internal/store"
	"goalgrid/internal/suggest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// 2026-10-17 is a Saturday.
var testNow = time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	alice *models.User
	bob   *models.User
}

func createFixture(t *testing.T) fixture {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	users := store.NewUserStore(s, bcrypt.MinCost)
	alice, err := users.Create(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	bob, err := users.Create(context.Background(), "bob", "pw2")
	require.NoError(t, err)

	repo := store.NewTaskStore(s, func() time.Time { return testNow })
	return fixture{
		svc:   NewService(repo, suggest.New(rand.NewPCG(7, 7))),
		alice: alice,
		bob:   bob,
	}
}

func TestAddValidates(t *testing.T) {
	f := createFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		priority string
		due      string
	}{
		{"empty text", "   ", "High", "2026-10-17"},
		{"missing priority", "Buy milk", "", "2026-10-17"},
		{"unknown priority", "Buy milk", "Urgent", "2026-10-17"},
		{"missing date", "Buy milk", "High", ""},
		{"bad date", "Buy milk", "High", "17/10/2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Add(ctx, f.alice, tt.text, tt.priority, tt.due)
			assert.ErrorIs(t, err, ErrInvalidTask)
		})
	}

	list, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddTrimsText(t *testing.T) {
	f := createFixture(t)
	task, err := f.svc.Add(context.Background(), f.alice, "  Buy milk ", "Low", "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Text)
	assert.Equal(t, models.PriorityLow, task.Priority)
	assert.Equal(t, f.alice.ID, task.OwnerID)
}

func TestToggleAndDeleteIgnoreForeignTasks(t *testing.T) {
	f := createFixture(t)
	ctx := context.Background()

	bobTask, err := f.svc.Add(ctx, f.bob, "Walk dog", "High", "2026-10-17")
	require.NoError(t, err)

	assert.NoError(t, f.svc.Toggle(ctx, f.alice, bobTask.ID))
	assert.NoError(t, f.svc.Delete(ctx, f.alice, bobTask.ID))
	assert.NoError(t, f.svc.Delete(ctx, f.alice, 9999))

	list, err := f.svc.List(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)
}

func TestToggleOwnTask(t *testing.T) {
	f := createFixture(t)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, f.alice, "Buy milk", "High", "2026-10-17")
	require.NoError(t, err)
	require.NoError(t, f.svc.Toggle(ctx, f.alice, task.ID))

	list, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)

	require.NoError(t, f.svc.Delete(ctx, f.alice, task.ID))
	list, err = f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBuildCalendar(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, DueDate: "2026-10-18"},
		{ID: 2, DueDate: "2026-10-17"},
		{ID: 3, DueDate: "2026-10-18"},
		{ID: 4, DueDate: "2026-10-17", Completed: true},
	}

	groups := BuildCalendar(tasks)
	require.Len(t, groups, 2)
	assert.Equal(t, "2026-10-18", groups[0].Date)
	assert.Equal(t, []models.Task{tasks[0], tasks[2]}, groups[0].Tasks)
	assert.Equal(t, "2026-10-17", groups[1].Date)
	assert.Equal(t, []models.Task{tasks[1], tasks[3]}, groups[1].Tasks)

	assert.Empty(t, BuildCalendar(nil))
}

func TestAllDoneToday(t *testing.T) {
	today := "2026-10-17"

	tests := []struct {
		name  string
		tasks []models.Task
		want  bool
	}{
		{"no tasks", nil, false},
		{"nothing due today", []models.Task{{DueDate: "2026-10-18", Completed: true}}, false},
		{"one open today", []models.Task{{DueDate: today, Completed: true}, {DueDate: today}}, false},
		{"all done today", []models.Task{{DueDate: today, Completed: true}, {DueDate: "2026-10-18"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllDoneToday(tt.tasks, today))
		})
	}
}

func TestBoard(t *testing.T) {
	f := createFixture(t)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, f.alice, "Buy milk", "High", "2026-10-17")
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, f.bob, "Walk dog", "Low", "2026-10-17")
	require.NoError(t, err)

	board, err := f.svc.Board(ctx, f.alice, testNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17", board.Today)
	require.Len(t, board.Calendar, 1)
	assert.Equal(t, []models.Task{*task}, board.Calendar[0].Tasks)
	assert.False(t, board.AllDone)
	require.Len(t, board.Suggestions, 1+suggest.RandomPicks)
	assert.Equal(t, suggest.FocusUrgent, board.Suggestions[0])

	require.NoError(t, f.svc.Toggle(ctx, f.alice, task.ID))
	board, err = f.svc.Board(ctx, f.alice, testNow)
	require.NoError(t, err)
	assert.True(t, board.AllDone)
	assert.Len(t, board.Suggestions, suggest.RandomPicks)
}
