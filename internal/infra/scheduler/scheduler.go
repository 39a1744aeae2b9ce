package scheduler

import (
	"context"
	"time"

	"case_notification_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler drives the reminder sweep: once immediately on Start and
// thereafter on a fixed cron cadence (every 15 minutes by default), plus a
// daily dedup-retention job. Stop drains running jobs so no timer outlives
// the service.
type ReminderScheduler struct {
	cronEngine        *cron.Cron
	reminderService   app.ReminderService
	logger            *logrus.Logger
	cronSpecSweep     string
	cronSpecRetention string
}

func NewReminderScheduler(
	reminderService app.ReminderService,
	logger *logrus.Logger,
	cronSpecSweep string, // e.g. "*/15 * * * *"
	cronSpecRetention string, // e.g. "30 3 * * *"
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:        cron.New(cron.WithLocation(time.Local)),
		reminderService:   reminderService,
		logger:            logger,
		cronSpecSweep:     cronSpecSweep,
		cronSpecRetention: cronSpecRetention,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecSweep, s.runSweep)
	if err != nil {
		return err
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecRetention, func() {
		s.logger.Info("Cron job triggered for dedup retention purge")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.reminderService.PurgeStaleRecords(ctx); err != nil {
			s.logger.WithError(err).Error("Dedup retention purge failed")
		}
	})
	if err != nil {
		return err
	}

	// One sweep fires right away; the cron cadence takes over afterwards.
	go s.runSweep()

	s.cronEngine.Start()
	s.logger.Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) runSweep() {
	s.logger.Debug("Reminder sweep triggered")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := s.reminderService.ProcessDueReminders(ctx); err != nil {
		s.logger.WithError(err).Error("Reminder sweep failed")
	}
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // No new jobs; running jobs finish.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped")
}
