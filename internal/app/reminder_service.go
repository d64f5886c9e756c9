package app

import (
	"context"
	"fmt"
	"time"

	"calendrette/internal/domain/period"
	domainTelegram "calendrette/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RecordStartCallback is the unique part of the "Log period start" button.
// The button payload is the start date.
const RecordStartCallback = "rec"

// ReminderService defines the reminder workflow driven by the scheduler and
// the bot.
type ReminderService interface {
	// SendDueReminders notifies the owner about predictions and ovulation
	// days that fall on or near today. It returns the number of messages sent.
	SendDueReminders(ctx context.Context, today time.Time) (int, error)
	// RecordStart stores a period starting on start, predicting the next
	// one from the average recorded cycle length.
	RecordStart(ctx context.Context, start time.Time) (string, error)
}

// PeriodStore is the part of StorageService the reminders need.
type PeriodStore interface {
	LoadDerived(ctx context.Context) ([]period.Derived, error)
	Save(ctx context.Context, d period.Draft) (string, error)
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	periods            PeriodStore
	telegramClient     domainTelegram.Client
	logger             *logrus.Entry
	ownerTelegramID    int64
	leadDays           int
	defaultCycleLength int
}

func NewReminderServiceImpl(
	ps PeriodStore,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	ownerID int64,
	leadDays int,
	defaultCycleLength int,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		periods:            ps,
		telegramClient:     tc,
		logger:             logger,
		ownerTelegramID:    ownerID,
		leadDays:           leadDays,
		defaultCycleLength: defaultCycleLength,
	}
}

type reminder struct {
	text   string
	markup *telebot.ReplyMarkup
}

func (s *ReminderServiceImpl) SendDueReminders(ctx context.Context, today time.Time) (int, error) {
	cycles, err := s.periods.LoadDerived(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load periods for reminders: %w", err)
	}

	day := civilDay(today)
	var due []reminder
	for _, c := range cycles {
		if !c.Valid {
			continue
		}
		due = append(due, s.remindersFor(c, day)...)
	}

	sent, failed := 0, 0
	for _, r := range due {
		var opts *telebot.SendOptions
		if r.markup != nil {
			opts = &telebot.SendOptions{ReplyMarkup: r.markup}
		}
		if err := s.telegramClient.SendMessage(s.ownerTelegramID, r.text, opts); err != nil {
			failed++
			s.logger.Errorf("Failed to send reminder to %d: %v", s.ownerTelegramID, err)
			continue
		}
		sent++
	}

	if failed > 0 {
		s.logger.Warnf("Reminders for %s: %d sent, %d failed", day.Format(period.DateLayout), sent, failed)
	} else {
		s.logger.Infof("Reminders for %s: %d sent", day.Format(period.DateLayout), sent)
	}
	return sent, nil
}

func (s *ReminderServiceImpl) remindersFor(c period.Derived, day time.Time) []reminder {
	var out []reminder
	predicted := c.PredictedDate.Format(period.DateLayout)

	if s.leadDays > 0 && c.PredictedDate.Equal(day.AddDate(0, 0, s.leadDays)) {
		out = append(out, reminder{
			text: fmt.Sprintf("Heads-up: your next period is expected in %d days, on %s.", s.leadDays, predicted),
		})
	}
	if c.PredictedDate.Equal(day) {
		markup := &telebot.ReplyMarkup{}
		btn := markup.Data("Log period start", RecordStartCallback, predicted)
		markup.Inline(markup.Row(btn))
		out = append(out, reminder{
			text:   fmt.Sprintf("Your period is expected today (%s). Tap below once it starts.", predicted),
			markup: markup,
		})
	}
	if c.OvulationDate.Equal(day) {
		out = append(out, reminder{
			text: fmt.Sprintf("Today (%s) is your estimated peak ovulation day.", day.Format(period.DateLayout)),
		})
	}
	return out
}

func (s *ReminderServiceImpl) RecordStart(ctx context.Context, start time.Time) (string, error) {
	cycles, err := s.periods.LoadDerived(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load periods: %w", err)
	}
	start = civilDay(start)
	length := period.SuggestCycleLength(cycles, s.defaultCycleLength)

	draft := period.Draft{
		StartDate:     start.Format(period.DateLayout),
		PredictedDate: period.Predict(start, length),
	}
	id, err := s.periods.Save(ctx, draft)
	if err != nil {
		return "", err
	}
	s.logger.Infof("Recorded period start %s, next expected %s (%d day cycle)", draft.StartDate, draft.PredictedDate, length)
	return id, nil
}

// civilDay drops the clock and zone, keeping the calendar date as UTC
// midnight to match derived dates.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
