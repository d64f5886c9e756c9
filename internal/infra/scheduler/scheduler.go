package scheduler

import (
	"context"
	"fmt"
	"time"

	"calendrette/internal/app" // For ReminderService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler runs the daily reminder check.
type ReminderScheduler struct {
	cronEngine       *cron.Cron
	reminderService  app.ReminderService
	logger           *logrus.Entry
	location         *time.Location
	cronSpecReminder string
	now              func() time.Time
}

func NewReminderScheduler(
	reminderService app.ReminderService,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecReminder string, // e.g., "0 9 * * *" (9 AM daily)
) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}
	return &ReminderScheduler{
		cronEngine:       cron.New(cron.WithLocation(location)),
		reminderService:  reminderService,
		logger:           logger,
		location:         location,
		cronSpecReminder: cronSpecReminder,
		now:              time.Now,
	}
}

// Start registers the reminder job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecReminder, s.runReminders)
	if err != nil {
		return fmt.Errorf("could not add reminder cron job %q: %w", s.cronSpecReminder, err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Reminder scheduler started (%s, %s).", s.cronSpecReminder, s.location)
	return nil
}

func (s *ReminderScheduler) runReminders() {
	s.logger.Info("Cron job triggered for reminders.")
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Context for the job
	defer cancel()

	today := s.now().In(s.location)
	sent, err := s.reminderService.SendDueReminders(ctx, today)
	if err != nil {
		s.logger.Errorf("Error during reminder processing: %v", err)
		return
	}
	s.logger.Infof("Reminder run for %s finished, %d sent.", today.Format("2006-01-02"), sent)
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
