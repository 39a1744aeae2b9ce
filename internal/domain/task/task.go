package task

import (
	"database/sql"
	"time"
)

// Status is the lifecycle status of a case task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusOverdue    Status = "overdue"
	StatusArchived   Status = "archived"
)

// IsTerminal reports whether the task is in a state that should never
// receive further reminders.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Category tags the kind of work a task represents. Court-session tasks get
// a dedicated reminder flow in the evaluator.
type Category string

const (
	CategoryCourt   Category = "court"
	CategoryGeneral Category = "general"
)

// Task represents a case task. The notification core consumes tasks
// read-only; CRUD is owned by the surrounding case-management backend.
type Task struct {
	ID         int64
	Title      string
	DueDate    sql.NullTime // Optional; tasks without a due date are never evaluated.
	Status     Status
	Category   Category
	AssigneeID sql.NullInt64 // Optional subscriber the reminder is routed to.
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
