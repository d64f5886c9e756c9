package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"calendrette/internal/app"
	"calendrette/internal/infra/logger"
	"calendrette/internal/infra/scheduler"
	"calendrette/internal/infra/telegram"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the daily reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *appRuntime) error {
	cfg := rt.cfg
	if err := cfg.RequireBot(); err != nil {
		return err
	}
	mainLogger := rt.log
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Owner ID: %d", cfg.LogLevel, cfg.Environment, cfg.OwnerTelegramID)

	// Initialize Telegram Bot
	botLogger := logger.WithComponent("telebot")
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := botLogger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}

	reminderService := app.NewReminderServiceImpl(
		rt.storage,
		telegram.NewTelebotAdapter(bot),
		logger.WithComponent("reminders"),
		cfg.OwnerTelegramID,
		cfg.ReminderLeadDays,
		cfg.DefaultCycleLength,
	)

	// Register Handlers
	handlerLogger := logger.WithComponent("handlers")
	telegram.RegisterBotCommands(bot, cfg.OwnerTelegramID, handlerLogger)
	telegram.RegisterPeriodHandlers(ctx, bot, rt.storage, reminderService, cfg.OwnerTelegramID, cfg.Location, handlerLogger)
	telegram.RegisterReminderResponseHandlers(ctx, bot, reminderService, cfg.OwnerTelegramID)
	mainLogger.Info("Bot handlers registered.")

	reminderScheduler := scheduler.NewReminderScheduler(reminderService, logger.WithComponent("scheduler"), cfg.Location, cfg.CronSpecReminder)
	if err := reminderScheduler.Start(); err != nil {
		return err
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are running.")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bot.Start() // Blocks until bot.Stop.
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		mainLogger.Info("Shutting down application...")
		reminderScheduler.Stop()
		bot.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
