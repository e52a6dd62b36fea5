package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily_reminder_bot/internal/app"
	"daily_reminder_bot/internal/infra/config"
	idb "daily_reminder_bot/internal/infra/database"
	"daily_reminder_bot/internal/infra/logger"
	"daily_reminder_bot/internal/infra/scheduler"
	"daily_reminder_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Daily Reminder Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	mainLogger := log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"db_driver":   cfg.DatabaseDriver,
		"auth_users":  len(cfg.AuthUsers),
	}).Info("Configuration loaded")

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	// Database and repositories
	stores, err := idb.Open(appCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not open database")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			mainLogger.WithError(err).Error("Failed to close database")
		}
	}()
	mainLogger.Info("Database ready, migrations applied")

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := log.WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
					"text":      c.Text(),
				})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	// Services
	promptService := app.NewPromptService(
		telegram.NewTelebotAdapter(bot),
		stores.Values,
		cfg.PromptQuestion,
		cfg.PromptOptions,
		log.WithField("component", "prompt_service"),
	)
	accessService := app.NewAccessService(cfg.AuthUsers)

	// Scheduler: restore persisted reminders before accepting commands
	reminderScheduler := scheduler.NewReminderScheduler(
		stores.Schedules,
		promptService.Fire,
		log.WithField("component", "scheduler"),
	)
	restored, err := reminderScheduler.ReconcileAtStartup(appCtx)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not restore reminders")
	}
	mainLogger.WithField("restored", restored).Info("Reminders restored")
	reminderScheduler.Start()

	// Handlers
	handlerLogger := log.WithField("component", "telegram")
	bot.Use(telegram.AuthMiddleware(accessService, handlerLogger))
	telegram.RegisterReminderHandlers(appCtx, bot, reminderScheduler, promptService, handlerLogger)

	mainLogger.Info("Application setup complete. Bot is polling for updates")
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	mainLogger.WithField("signal", sig.String()).Info("Shutting down application...")

	bot.Stop()
	cancelApp()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := reminderScheduler.Stop(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("Scheduler did not stop cleanly")
	}

	mainLogger.Info("Application shut down gracefully")
}
