// internal/infra/telegram/reminder_response_handlers.go
package telegram

import (
	"context"
	"fmt"
	"time"

	"calendrette/internal/app" // For ReminderService interface
	"calendrette/internal/domain/period"

	"gopkg.in/telebot.v3"
)

func RegisterReminderResponseHandlers(ctx context.Context, b *telebot.Bot, reminderService app.ReminderService, ownerTelegramID int64) {
	b.Handle("\f"+app.RecordStartCallback, ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		data := c.Callback().Data // 2025-01-29

		start, err := time.Parse(period.DateLayout, data)
		if err != nil {
			c.Bot().OnError(fmt.Errorf("invalid date %q in record-start callback: %w", data, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Could not read the date."})
		}

		id, err := reminderService.RecordStart(ctx, start)
		if err != nil {
			c.Bot().OnError(fmt.Errorf("error recording period start %s: %w", data, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: userMessage(err)})
		}
		if id == "" {
			return c.Respond(&telebot.CallbackResponse{Text: "Already recorded."})
		}
		return c.Respond(&telebot.CallbackResponse{Text: fmt.Sprintf("Period start %s recorded.", data)})
	}))

	// Fallback for stale or unknown buttons.
	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		c.Bot().OnError(fmt.Errorf("unhandled callback data: %q", c.Callback().Data), c)
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
	})
}
