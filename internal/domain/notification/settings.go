package notification

import (
	"context"
	"fmt"
	"time"
)

// SettingsKey is the fixed storage key under which the settings JSON lives.
const SettingsKey = "notification_settings"

// Settings is the user-facing notification configuration. It is read on
// every sweep and written by the settings API on every change.
type Settings struct {
	DueDateReminders        bool   `json:"due_date_reminders"`
	CourtSessionAlerts      bool   `json:"court_session_alerts"`
	ReminderIntervalMinutes int    `json:"reminder_interval_minutes"`
	WorkingHoursEnabled     bool   `json:"working_hours_enabled"`
	WorkingHoursStart       string `json:"working_hours_start"` // "HH:MM" local time
	WorkingHoursEnd         string `json:"working_hours_end"`   // "HH:MM" local time
}

// DefaultSettings returns the configuration used when nothing has been
// persisted yet: all reminder kinds on, hourly re-notify, no working-hours
// restriction.
func DefaultSettings() Settings {
	return Settings{
		DueDateReminders:        true,
		CourtSessionAlerts:      true,
		ReminderIntervalMinutes: 60,
		WorkingHoursEnabled:     false,
		WorkingHoursStart:       "08:00",
		WorkingHoursEnd:         "18:00",
	}
}

// KindEnabled reports whether reminders of the given kind are switched on.
func (s Settings) KindEnabled(kind Kind) bool {
	switch kind {
	case KindDueDate:
		return s.DueDateReminders
	case KindCourtSession:
		return s.CourtSessionAlerts
	default:
		return false
	}
}

// DueDateInterval returns the effective minimum gap between due-date
// reminders for one task. The configured interval is honored when it is
// longer than the one-hour floor.
func (s Settings) DueDateInterval() time.Duration {
	configured := time.Duration(s.ReminderIntervalMinutes) * time.Minute
	if configured > DueRenotifyInterval {
		return configured
	}
	return DueRenotifyInterval
}

// WithinWorkingHours reports whether `now` falls inside the configured
// [start, end) window. When the restriction is disabled, or the window is
// malformed, delivery is allowed.
func (s Settings) WithinWorkingHours(now time.Time) bool {
	if !s.WorkingHoursEnabled {
		return true
	}
	start, errStart := parseClock(s.WorkingHoursStart)
	end, errEnd := parseClock(s.WorkingHoursEnd)
	if errStart != nil || errEnd != nil {
		return true
	}
	minuteOfDay := now.Hour()*60 + now.Minute()
	if start == end {
		return true // Degenerate window, treated as unrestricted.
	}
	if start < end {
		return minuteOfDay >= start && minuteOfDay < end
	}
	// Window wraps midnight, e.g. 20:00-06:00.
	return minuteOfDay >= start || minuteOfDay < end
}

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SettingsStore persists the Settings payload under SettingsKey.
type SettingsStore interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
