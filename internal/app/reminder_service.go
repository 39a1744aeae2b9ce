package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"case_notification_service/internal/domain/notification"
	"case_notification_service/internal/domain/task"
	"case_notification_service/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReminderService defines the operations the scheduler drives.
type ReminderService interface {
	// ProcessDueReminders runs one evaluation sweep over the task list and
	// delivers every reminder that is due right now.
	ProcessDueReminders(ctx context.Context) error
	// PurgeStaleRecords removes dedup records whose task no longer exists.
	PurgeStaleRecords(ctx context.Context) error
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	taskRepo task.Repository
	dedup    notification.DedupStore
	channel  notification.Channel
	settings notification.SettingsStore
	clock    notification.Clock
	logger   *logrus.Logger
}

func NewReminderServiceImpl(
	tr task.Repository,
	ds notification.DedupStore,
	ch notification.Channel,
	ss notification.SettingsStore,
	clock notification.Clock,
	logger *logrus.Logger,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		taskRepo: tr,
		dedup:    ds,
		channel:  ch,
		settings: ss,
		clock:    clock,
		logger:   logger,
	}
}

// ProcessDueReminders evaluates every task with a due timestamp and a
// non-terminal status. A failing delivery for one task is logged and does
// not abort the rest of the sweep.
func (s *ReminderServiceImpl) ProcessDueReminders(ctx context.Context) error {
	started := s.clock.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}()

	settings, err := s.settings.Load(ctx)
	if err != nil {
		// A broken settings payload must not stop reminders; defaults apply.
		s.logger.WithError(err).Warn("Could not load notification settings, using defaults")
		settings = notification.DefaultSettings()
	}

	now := s.clock.Now()
	if !settings.WithinWorkingHours(now) {
		s.logger.Debug("Sweep skipped: outside configured working hours")
		metrics.NotificationsSuppressed.WithLabelValues("working_hours").Inc()
		return nil
	}

	tasks, err := s.taskRepo.ListWithDueDates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks for reminder sweep: %w", err)
	}

	for _, t := range tasks {
		if !t.DueDate.Valid || t.Status.IsTerminal() {
			continue
		}
		s.evaluateDueDate(ctx, t, settings, now)
		if t.Category == task.CategoryCourt {
			s.evaluateCourtSession(ctx, t, settings, now)
		}
	}
	return nil
}

func (s *ReminderServiceImpl) evaluateDueDate(ctx context.Context, t *task.Task, settings notification.Settings, now time.Time) {
	hoursUntilDue := t.DueDate.Time.Sub(now).Hours()
	if hoursUntilDue < -notification.DueWindowHours || hoursUntilDue > notification.DueWindowHours {
		return
	}
	if !settings.KindEnabled(notification.KindDueDate) {
		metrics.NotificationsSuppressed.WithLabelValues("kind_disabled").Inc()
		return
	}

	allowed, err := s.dedup.ShouldNotify(ctx, t.ID, notification.KindDueDate, settings.DueDateInterval(), now)
	if err != nil {
		s.logger.WithField("task_id", t.ID).WithError(err).Error("Dedup lookup failed for due-date reminder")
		metrics.SweepErrors.Inc()
		return
	}
	if !allowed {
		metrics.NotificationsSuppressed.WithLabelValues("dedup_window").Inc()
		return
	}

	tier := notification.DueDateTier(hoursUntilDue)
	title, body := dueDateMessage(t.Title, hoursUntilDue, tier)
	s.deliverAndRecord(ctx, t, notification.KindDueDate, tier, title, body, now)
}

func (s *ReminderServiceImpl) evaluateCourtSession(ctx context.Context, t *task.Task, settings notification.Settings, now time.Time) {
	minutesUntilSession := t.DueDate.Time.Sub(now).Minutes()
	if minutesUntilSession <= 0 || minutesUntilSession > notification.CourtWindowMinutes {
		return
	}
	if !settings.KindEnabled(notification.KindCourtSession) {
		metrics.NotificationsSuppressed.WithLabelValues("kind_disabled").Inc()
		return
	}

	// minInterval 0: once a court record exists it never fires again.
	allowed, err := s.dedup.ShouldNotify(ctx, t.ID, notification.KindCourtSession, 0, now)
	if err != nil {
		s.logger.WithField("task_id", t.ID).WithError(err).Error("Dedup lookup failed for court-session reminder")
		metrics.SweepErrors.Inc()
		return
	}
	if !allowed {
		metrics.NotificationsSuppressed.WithLabelValues("dedup_window").Inc()
		return
	}

	tier := notification.CourtSessionTier(minutesUntilSession)
	title, body := courtSessionMessage(t.Title, minutesUntilSession, tier)
	s.deliverAndRecord(ctx, t, notification.KindCourtSession, tier, title, body, now)
}

func (s *ReminderServiceImpl) deliverAndRecord(ctx context.Context, t *task.Task, kind notification.Kind, tier notification.Tier, title, body string, now time.Time) {
	msg := notification.Message{
		ID:                 uuid.NewString(),
		TaskID:             t.ID,
		Kind:               kind,
		Tier:               tier,
		Title:              title,
		Body:               body,
		URL:                fmt.Sprintf("/tasks/%d", t.ID),
		RequireInteraction: tier == notification.TierUrgent,
	}
	if t.AssigneeID.Valid {
		msg.Recipient = t.AssigneeID.Int64
	}

	if err := s.channel.Deliver(ctx, msg); err != nil {
		s.logger.WithFields(logrus.Fields{
			"task_id": t.ID,
			"kind":    kind,
		}).WithError(err).Error("Notification delivery failed")
		metrics.SweepErrors.Inc()
		return
	}
	metrics.NotificationsDelivered.WithLabelValues(string(kind), string(tier)).Inc()

	if err := s.dedup.Record(ctx, t.ID, kind, now); err != nil {
		// The notification was shown; a failed record write means it may
		// repeat next sweep, which beats silently losing reminders.
		s.logger.WithFields(logrus.Fields{
			"task_id": t.ID,
			"kind":    kind,
		}).WithError(err).Error("Failed to record notification timestamp")
		metrics.SweepErrors.Inc()
	}
}

// PurgeStaleRecords deletes dedup records for tasks that were removed from
// the case-management store.
func (s *ReminderServiceImpl) PurgeStaleRecords(ctx context.Context) error {
	ids, err := s.taskRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list task IDs for dedup retention: %w", err)
	}
	purged, err := s.dedup.PurgeOrphans(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to purge orphaned dedup records: %w", err)
	}
	if purged > 0 {
		s.logger.WithField("purged", purged).Info("Removed orphaned dedup records")
	}
	return nil
}

func dueDateMessage(title string, hoursUntilDue float64, tier notification.Tier) (string, string) {
	hours := int(math.Round(math.Abs(hoursUntilDue)))
	if hoursUntilDue <= 0 {
		if hours == 0 {
			return "مهمة متأخرة", fmt.Sprintf("المهمة %q تجاوزت موعد استحقاقها الآن", title)
		}
		return "مهمة متأخرة", fmt.Sprintf("المهمة %q متأخرة منذ %d ساعة", title, hours)
	}
	if tier == notification.TierWarning {
		return "مهمة تستحق قريباً", fmt.Sprintf("المهمة %q تستحق خلال %d ساعة", title, hours)
	}
	return "تذكير بمهمة", fmt.Sprintf("المهمة %q تستحق خلال %d ساعة", title, hours)
}

func courtSessionMessage(title string, minutesUntilSession float64, tier notification.Tier) (string, string) {
	minutes := int(math.Round(minutesUntilSession))
	switch tier {
	case notification.TierUrgent:
		return "جلسة محكمة وشيكة", fmt.Sprintf("جلسة المحكمة للقضية %q تبدأ خلال %d دقيقة", title, minutes)
	case notification.TierWarning:
		return "جلسة محكمة قريبة", fmt.Sprintf("جلسة المحكمة للقضية %q تبدأ خلال %d دقيقة", title, minutes)
	default:
		return "تذكير بجلسة محكمة", fmt.Sprintf("جلسة المحكمة للقضية %q تبدأ خلال %d دقيقة", title, minutes)
	}
}
