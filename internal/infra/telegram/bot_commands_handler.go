// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func helpText() string {
	var helpText strings.Builder
	helpText.WriteString("Available commands:\n\n")
	helpText.WriteString("`/add <YYYY-MM-DD> [predicted YYYY-MM-DD]`\n - Record a period start. Without a predicted date the average cycle length is used.\n\n")
	helpText.WriteString("`/list`\n - Show recorded cycles, newest first.\n\n")
	helpText.WriteString("`/delete <id>`\n - Delete a recorded cycle.\n\n")
	helpText.WriteString("`/next`\n - Show the next predicted period and ovulation day.\n\n")
	helpText.WriteString("`/calendar`\n - Show this month's marked days.\n\n")
	helpText.WriteString("`/help`\n - Show this message.")
	return helpText.String()
}

func RegisterBotCommands(
	b *telebot.Bot,
	ownerTelegramID int64,
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		startHelpLogger.WithField("command", "/start").Info("Processing /start command")
		return c.Send(fmt.Sprintf("Hi %s! I keep your cycle calendar and send reminders. Use /help for the list of commands.", c.Sender().FirstName))
	}))

	b.Handle("/help", ownerOnly(ownerTelegramID, func(c telebot.Context) error {
		startHelpLogger.WithField("command", "/help").Info("Processing /help command")
		return c.Send(helpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}))
}
