package models

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities for display; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (p Priority) Valid() bool {
	return p.Rank() < 4
}

type Task struct {
	ID          int64    `json:"id,omitempty"`
	OwnerID     int64    `json:"owner_id,omitempty"`
	Text        string   `json:"text,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Completed   bool     `json:"completed"`
	CreatedTime string   `json:"created_time,omitempty"`
}
