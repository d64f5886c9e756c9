package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calendrette/internal/app"
	"calendrette/internal/domain/calendar"
	"calendrette/internal/domain/period"
	"calendrette/internal/infra/calendarview"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterPeriodHandlers registers the record commands. Only ownerTelegramID
// is answered.
func RegisterPeriodHandlers(
	ctx context.Context,
	b *telebot.Bot,
	storage *app.StorageService,
	reminders app.ReminderService,
	ownerTelegramID int64,
	location *time.Location,
	baseLogger *logrus.Entry,
) {
	today := func() time.Time { return time.Now().In(location) }
	generator := calendar.NewGenerator()

	b.Handle("/add", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		handlerLogger := baseLogger.WithField("handler", "/add")
		handlerLogger.Info("Command received")

		start, predicted, err := parseAddArgs(c.Args())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid command format")
			return c.Send(err.Error())
		}

		var id string
		if predicted == "" {
			id, err = reminders.RecordStart(ctx, start)
		} else {
			id, err = storage.Save(ctx, period.Draft{StartDate: start.Format(period.DateLayout), PredictedDate: predicted})
		}
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to save period")
			return c.Send(userMessage(err))
		}
		if id == "" {
			return c.Send(fmt.Sprintf("A period starting %s is already recorded.", start.Format(period.DateLayout)))
		}
		handlerLogger.WithField("period_id", id).Info("Period saved")
		return c.Send(fmt.Sprintf("Saved period starting %s (id %s).", start.Format(period.DateLayout), id))
	}))

	b.Handle("/list", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		cycles, err := storage.LoadDerived(ctx)
		if err != nil {
			baseLogger.WithField("handler", "/list").WithError(err).Error("Failed to load periods")
			return c.Send(userMessage(err))
		}
		return c.Send(formatCycles(cycles))
	}))

	b.Handle("/delete", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		args := c.Args()
		if len(args) != 1 {
			return c.Send("Usage: /delete <id>")
		}
		if err := storage.Delete(ctx, args[0]); err != nil {
			baseLogger.WithField("handler", "/delete").WithError(err).Error("Failed to delete period")
			return c.Send(userMessage(err))
		}
		return c.Send(fmt.Sprintf("Deleted %s.", args[0]))
	}))

	b.Handle("/next", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		cycles, err := storage.LoadDerived(ctx)
		if err != nil {
			return c.Send(userMessage(err))
		}
		return c.Send(nextSummary(cycles, today()))
	}))

	b.Handle("/calendar", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		cycles, err := storage.LoadDerived(ctx)
		if err != nil {
			return c.Send(userMessage(err))
		}
		now := today()
		markers := generator.Generate(cycles, time.Time{})
		text := now.Format("January 2006") + "\n\n" + calendarview.FormatAgenda(calendarview.MonthAgenda(now.Year(), now.Month(), markers))
		return c.Send(text)
	}))
}

// parseAddArgs reads "<start> [predicted]". predicted is returned as given
// after validation, or empty when omitted.
func parseAddArgs(args []string) (time.Time, string, error) {
	if len(args) < 1 || len(args) > 2 {
		return time.Time{}, "", fmt.Errorf("Usage: /add <YYYY-MM-DD> [predicted YYYY-MM-DD]")
	}
	start, err := time.Parse(period.DateLayout, args[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("Start date must look like 2025-01-31.")
	}
	if len(args) == 1 {
		return start, "", nil
	}
	if _, err := time.Parse(period.DateLayout, args[1]); err != nil {
		return time.Time{}, "", fmt.Errorf("Predicted date must look like 2025-01-31.")
	}
	return start, args[1], nil
}

func formatCycles(cycles []period.Derived) string {
	if len(cycles) == 0 {
		return "No periods recorded yet."
	}
	var b strings.Builder
	for _, c := range cycles {
		if !c.Valid {
			fmt.Fprintf(&b, "%s: unreadable dates\n", c.ID)
			continue
		}
		fmt.Fprintf(&b, "%s → %s (%d days), ovulation %s [id %s]\n",
			c.StartDate.Format(period.DateLayout),
			c.PredictedDate.Format(period.DateLayout),
			c.CycleDays,
			c.OvulationDate.Format(period.DateLayout),
			c.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func nextSummary(cycles []period.Derived, today time.Time) string {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for _, c := range cycles {
		if !c.Valid {
			continue
		}
		return fmt.Sprintf("Next period: %s (%s).\nPeak ovulation: %s (%s).",
			c.PredictedDate.Format(period.DateLayout), relativeDays(c.PredictedDate, day),
			c.OvulationDate.Format(period.DateLayout), relativeDays(c.OvulationDate, day))
	}
	return "No periods recorded yet."
}

func relativeDays(target, day time.Time) string {
	n := int(target.Sub(day).Hours() / 24)
	switch {
	case n == 0:
		return "today"
	case n == 1:
		return "tomorrow"
	case n > 1:
		return fmt.Sprintf("in %d days", n)
	case n == -1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", -n)
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, period.ErrAuthenticationRequired):
		return "Remote storage needs a signed-in account. Run `calendrette account login` on the server."
	case errors.Is(err, period.ErrRemoteUnavailable):
		return "Remote storage is not configured."
	case errors.Is(err, period.ErrValidation):
		return err.Error()
	default:
		return fmt.Sprintf("Something went wrong: %s", err.Error())
	}
}
