package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"daily_reminder_bot/internal/app"
	"daily_reminder_bot/internal/domain/reminder"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// ReminderService is the part of the scheduler the chat commands drive.
type ReminderService interface {
	RegisterReminder(ctx context.Context, conversationID, ownerID int64, hour, minute int) (time.Duration, error)
	ResetReminders(ctx context.Context, conversationID int64) (int, error)
	ListReminders(ctx context.Context, conversationID int64) ([]*reminder.Schedule, error)
}

type PromptService interface {
	SendPrompt(ctx context.Context, conversationID int64) error
	RecordValue(ctx context.Context, userID int64, option int) (string, error)
}

// usageFallbacks answers any other message, text or not, with the usage text.
var usageFallbacks = []string{
	telebot.OnText,
	telebot.OnMedia,
	telebot.OnSticker,
	telebot.OnLocation,
	telebot.OnContact,
	telebot.OnVenue,
	telebot.OnDice,
	telebot.OnPoll,
}

type handlers struct {
	ctx       context.Context
	reminders ReminderService
	prompts   PromptService
	logger    *logrus.Entry
}

// RegisterReminderHandlers wires the bot commands and the option button callback.
func RegisterReminderHandlers(
	ctx context.Context,
	b *telebot.Bot,
	reminders ReminderService,
	prompts PromptService,
	baseLogger *logrus.Entry,
) {
	h := &handlers{
		ctx:       ctx,
		reminders: reminders,
		prompts:   prompts,
		logger:    baseLogger.WithField("handler_group", "reminders"),
	}

	b.Handle("/start", h.onUsage)
	b.Handle("/help", h.onUsage)
	for _, endpoint := range usageFallbacks {
		b.Handle(endpoint, h.onUsage)
	}
	b.Handle("/v", h.onValue)
	b.Handle("/remind", h.onRemind)
	b.Handle("/reset", h.onReset)
	b.Handle("/status", h.onStatus)
	b.Handle(&telebot.Btn{Unique: app.PromptButtonUnique}, h.onOption)
}

func (h *handlers) commandLogger(c telebot.Context, command string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"command":   command,
		"sender_id": c.Sender().ID,
		"chat_id":   c.Chat().ID,
	})
}

func (h *handlers) onUsage(c telebot.Context) error {
	return c.Send(usageText)
}

func (h *handlers) onValue(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/v")
	if err := h.prompts.SendPrompt(h.ctx, c.Chat().ID); err != nil {
		logCtx.WithError(err).Error("Failed to send prompt")
		return nil
	}
	logCtx.Info("Prompt sent on request")
	return nil
}

func (h *handlers) onRemind(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/remind")

	args := c.Args()
	if len(args) != 1 {
		return c.Send(remindUsageText)
	}
	hour, minute, err := ParseTimeOfDay(args[0])
	if err != nil {
		logCtx.WithError(err).Debug("Rejected reminder time")
		return c.Send(remindUsageText)
	}

	delay, err := h.reminders.RegisterReminder(h.ctx, c.Chat().ID, c.Sender().ID, hour, minute)
	if err != nil {
		var verr *reminder.ValidationError
		if errors.As(err, &verr) {
			return c.Send(remindUsageText)
		}
		logCtx.WithError(err).Error("Failed to register reminder")
		return c.Send("Could not save the reminder. Please try again later.")
	}

	logCtx.WithFields(logrus.Fields{
		"hour":       hour,
		"minute":     minute,
		"next_in_ms": delay.Milliseconds(),
	}).Info("Reminder registered")
	at := reminder.Schedule{Hour: hour, Minute: minute}.Clock()
	return c.Send(fmt.Sprintf("Okay! Next reminder in %s (at %s)", formatDelay(delay), at))
}

func (h *handlers) onReset(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/reset")

	removed, err := h.reminders.ResetReminders(h.ctx, c.Chat().ID)
	if err != nil {
		logCtx.WithError(err).WithField("removed", removed).Error("Reset did not complete")
		return c.Send(fmt.Sprintf("Removed %d reminder(s), but some could not be deleted. Please run /reset again.", removed))
	}

	logCtx.WithField("removed", removed).Info("Reminders reset")
	return c.Send(fmt.Sprintf("Done! Removed %d reminder(s).", removed))
}

func (h *handlers) onStatus(c telebot.Context) error {
	schedules, err := h.reminders.ListReminders(h.ctx, c.Chat().ID)
	if err != nil {
		h.commandLogger(c, "/status").WithError(err).Error("Failed to list reminders")
		return c.Send("Could not load your reminders. Please try again later.")
	}
	return c.Send(formatReminders(schedules))
}

func (h *handlers) onOption(c telebot.Context) error {
	logCtx := h.logger.WithFields(logrus.Fields{
		"callback":  app.PromptButtonUnique,
		"sender_id": c.Sender().ID,
		"data":      c.Callback().Data,
	})

	option, err := strconv.Atoi(c.Callback().Data)
	if err != nil {
		logCtx.WithError(err).Warn("Malformed option payload")
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown option."})
	}

	label, err := h.prompts.RecordValue(h.ctx, c.Sender().ID, option)
	if err != nil {
		if errors.Is(err, app.ErrUnknownOption) {
			logCtx.WithError(err).Warn("Option out of range")
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown option."})
		}
		logCtx.WithError(err).Error("Failed to record value")
		return c.Respond(&telebot.CallbackResponse{Text: "Could not save the value."})
	}

	if err := c.Respond(); err != nil {
		logCtx.WithError(err).Debug("Callback acknowledgement failed")
	}
	return c.Edit("Saved: " + label)
}
