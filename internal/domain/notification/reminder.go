package notification

import "time"

// Kind identifies the category of reminder being sent for a task.
type Kind string

const (
	KindDueDate      Kind = "due_date"
	KindCourtSession Kind = "court_session"
)

// Tier is the urgency level of a reminder, derived from how close the task
// is to its due timestamp. It controls message phrasing and whether the
// notification requires interaction before dismissal.
type Tier string

const (
	TierUrgent   Tier = "urgent"
	TierWarning  Tier = "warning"
	TierReminder Tier = "reminder"
)

const (
	// DueWindowHours bounds the due-date sweep: a task is considered when it
	// is due within the next 24 hours or became overdue within the last 24.
	DueWindowHours = 24
	// CourtWindowMinutes is the final pre-session window in which a court
	// task fires its single court-session reminder.
	CourtWindowMinutes = 120
	// DueRenotifyInterval is the minimum gap between two due-date reminders
	// for the same task.
	DueRenotifyInterval = time.Hour
)

// DueDateTier maps hours-until-due onto an urgency tier. Negative values
// mean the task is already overdue.
func DueDateTier(hoursUntilDue float64) Tier {
	switch {
	case hoursUntilDue <= 0:
		return TierUrgent
	case hoursUntilDue <= 2:
		return TierWarning
	default:
		return TierReminder
	}
}

// CourtSessionTier maps minutes-until-session onto an urgency tier.
func CourtSessionTier(minutesUntilSession float64) Tier {
	switch {
	case minutesUntilSession <= 15:
		return TierUrgent
	case minutesUntilSession <= 60:
		return TierWarning
	default:
		return TierReminder
	}
}
