// Package suggest recommends tasks from the calendar and the user's backlog.
package suggest

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"goalgrid/internal/models"
)

const (
	PlanWeek       = "Plan weekly goals"
	ReviewWeek     = "Review weekly progress"
	PrioritizeDay  = "Prioritize today's tasks"
	FocusUrgent    = "Focus on urgent tasks"
	RandomPicks    = 2
	morningCutover = 10
)

// pool holds the generic suggestions sampled on every call.
var pool = []string{
	"Take a short walk",
	"Organize your files",
	"Water your plants",
	"Clear your inbox",
	"Read an article",
}

// Engine is safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns an Engine drawing from src. A nil source is seeded randomly.
func New(src rand.Source) *Engine {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Engine{rng: rand.New(src)}
}

// At is Suggest for the weekday and hour of now.
func (e *Engine) At(now time.Time, tasks []models.Task) []string {
	return e.Suggest(now.Weekday(), now.Hour(), tasks)
}

// Suggest returns the rule-based suggestions that apply, in fixed order,
// followed by RandomPicks distinct entries from Pool.
func (e *Engine) Suggest(weekday time.Weekday, hour int, tasks []models.Task) []string {
	suggestions := make([]string, 0, 4+RandomPicks)

	if weekday == time.Monday {
		suggestions = append(suggestions, PlanWeek)
	}
	if weekday == time.Friday {
		suggestions = append(suggestions, ReviewWeek)
	}
	if hour < morningCutover {
		suggestions = append(suggestions, PrioritizeDay)
	}
	if hasOpenUrgent(tasks) {
		suggestions = append(suggestions, FocusUrgent)
	}

	return append(suggestions, e.sample(RandomPicks)...)
}

// Pool returns a copy of the generic suggestions.
func Pool() []string {
	return slices.Clone(pool)
}

func (e *Engine) sample(k int) []string {
	e.mu.Lock()
	perm := e.rng.Perm(len(pool))
	e.mu.Unlock()

	k = min(k, len(perm))
	picks := make([]string, 0, k)
	for _, i := range perm[:k] {
		picks = append(picks, pool[i])
	}
	return picks
}

func hasOpenUrgent(tasks []models.Task) bool {
	for _, t := range tasks {
		if t.Priority == models.PriorityHigh && !t.Completed {
			return true
		}
	}
	return false
}
