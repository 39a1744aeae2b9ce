package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.DueDateReminders)
	assert.True(t, s.CourtSessionAlerts)
	assert.Equal(t, 60, s.ReminderIntervalMinutes)
	assert.False(t, s.WorkingHoursEnabled)
}

func TestKindEnabled(t *testing.T) {
	s := DefaultSettings()
	s.DueDateReminders = false

	assert.False(t, s.KindEnabled(KindDueDate))
	assert.True(t, s.KindEnabled(KindCourtSession))
	assert.False(t, s.KindEnabled(Kind("unknown")))
}

func TestDueDateInterval_HonorsFloor(t *testing.T) {
	s := DefaultSettings()

	s.ReminderIntervalMinutes = 30
	assert.Equal(t, time.Hour, s.DueDateInterval(), "sub-hour interval clamps to the floor")

	s.ReminderIntervalMinutes = 120
	assert.Equal(t, 2*time.Hour, s.DueDateInterval())
}

func TestWithinWorkingHours(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
	}

	s := DefaultSettings()
	assert.True(t, s.WithinWorkingHours(at(3, 0)), "disabled restriction allows everything")

	s.WorkingHoursEnabled = true
	s.WorkingHoursStart = "08:00"
	s.WorkingHoursEnd = "18:00"

	assert.True(t, s.WithinWorkingHours(at(8, 0)), "start is inclusive")
	assert.True(t, s.WithinWorkingHours(at(12, 30)))
	assert.False(t, s.WithinWorkingHours(at(18, 0)), "end is exclusive")
	assert.False(t, s.WithinWorkingHours(at(7, 59)))

	// Window wrapping midnight.
	s.WorkingHoursStart = "20:00"
	s.WorkingHoursEnd = "06:00"
	assert.True(t, s.WithinWorkingHours(at(23, 0)))
	assert.True(t, s.WithinWorkingHours(at(5, 59)))
	assert.False(t, s.WithinWorkingHours(at(12, 0)))

	// Malformed values fail open.
	s.WorkingHoursStart = "garbage"
	assert.True(t, s.WithinWorkingHours(at(12, 0)))

	// Degenerate window is unrestricted.
	s.WorkingHoursStart = "09:00"
	s.WorkingHoursEnd = "09:00"
	assert.True(t, s.WithinWorkingHours(at(3, 0)))
}
