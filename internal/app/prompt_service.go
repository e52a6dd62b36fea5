// internal/app/prompt_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"daily_reminder_bot/internal/domain/measurement"
	"daily_reminder_bot/internal/domain/reminder"
	domainTelegram "daily_reminder_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// PromptButtonUnique identifies the inline option buttons in callback routing.
const PromptButtonUnique = "val"

var ErrUnknownOption = errors.New("unknown prompt option")

// PromptService sends the daily question and records the answers.
type PromptService struct {
	client   domainTelegram.Client
	values   measurement.Repository
	question string
	options  []string
	logger   *logrus.Entry
	now      func() time.Time
}

func NewPromptService(
	client domainTelegram.Client,
	values measurement.Repository,
	question string,
	options []string,
	logger *logrus.Entry,
) *PromptService {
	return &PromptService{
		client:   client,
		values:   values,
		question: question,
		options:  options,
		logger:   logger,
		now:      time.Now,
	}
}

// Keyboard builds one inline button per option; the payload is the option index.
func (s *PromptService) Keyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	buttons := make([]telebot.Btn, 0, len(s.options))
	for i, label := range s.options {
		buttons = append(buttons, markup.Data(label, PromptButtonUnique, strconv.Itoa(i)))
	}
	markup.Inline(markup.Row(buttons...))
	return markup
}

// SendPrompt asks the configured question in the given chat.
// A failed send is returned as *reminder.DeliveryError.
//
// telebot has no context-aware send, so the call runs in its own goroutine and
// SendPrompt gives up when ctx ends. The abandoned request finishes on telebot's
// HTTP client timeout.
func (s *PromptService) SendPrompt(ctx context.Context, conversationID int64) error {
	if err := ctx.Err(); err != nil {
		return &reminder.DeliveryError{ConversationID: conversationID, Err: err}
	}

	sent := make(chan error, 1)
	go func() {
		sent <- s.client.SendMessage(conversationID, s.question, &telebot.SendOptions{ReplyMarkup: s.Keyboard()})
	}()

	select {
	case err := <-sent:
		if err != nil {
			return &reminder.DeliveryError{ConversationID: conversationID, Err: err}
		}
	case <-ctx.Done():
		s.logger.WithField("conversation_id", conversationID).Warn("Prompt send abandoned")
		return &reminder.DeliveryError{ConversationID: conversationID, Err: ctx.Err()}
	}
	s.logger.WithField("conversation_id", conversationID).Debug("Prompt sent")
	return nil
}

// Fire is the scheduler callback for a due reminder.
func (s *PromptService) Fire(ctx context.Context, conversationID int64, _ reminder.Schedule) error {
	return s.SendPrompt(ctx, conversationID)
}

// RecordValue stores the user's answer and returns the chosen option's label.
func (s *PromptService) RecordValue(ctx context.Context, userID int64, option int) (string, error) {
	if option < 0 || option >= len(s.options) {
		return "", fmt.Errorf("%w: %d", ErrUnknownOption, option)
	}

	now := s.now()
	v := &measurement.Value{
		UserID:     userID,
		Date:       now,
		RecordedAt: now,
		Option:     option,
	}
	if err := s.values.Save(ctx, v); err != nil {
		return "", fmt.Errorf("failed to save value: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"option":   option,
		"value_id": v.ID,
	}).Info("Value recorded")
	return s.options[option], nil
}
