package telegram

import (
	"daily_reminder_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// AuthMiddleware silently drops updates from users outside the allow list.
func AuthMiddleware(access *app.AccessService, logger *logrus.Entry) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil {
				logger.Debug("Dropping update without sender")
				return nil
			}
			if err := access.Authorize(sender.ID); err != nil {
				logger.WithField("sender_id", sender.ID).Warn("Unauthorized access denied")
				if c.Callback() != nil {
					return c.Respond()
				}
				return nil
			}
			return next(c)
		}
	}
}
