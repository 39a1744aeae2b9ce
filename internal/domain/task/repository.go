package task

import (
	"context"
)

// Repository defines the read operations the notification core needs over
// the case-management task store.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Task, error)
	// ListWithDueDates returns every task that carries a due timestamp,
	// regardless of status. Status filtering is the evaluator's concern.
	ListWithDueDates(ctx context.Context) ([]*Task, error)
	// ListIDs returns the IDs of all existing tasks. Used by the dedup
	// retention job to purge records for tasks that no longer exist.
	ListIDs(ctx context.Context) ([]int64, error)
}
