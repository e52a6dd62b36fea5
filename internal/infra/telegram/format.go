package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"daily_reminder_bot/internal/domain/reminder"
)

const (
	usageText = "Hello!\n\n" +
		"/v - Send value\n" +
		"/status - Get status\n" +
		"/remind <hour:mins> - Set a daily reminder\n" +
		"/reset - Reset daily reminders"
	remindUsageText = "Usage: /remind <hour:mins>"
)

var ErrInvalidTimeFormat = errors.New("time must be written as hour:mins")

// ParseTimeOfDay reads "H:MM" or "HH:MM" into an hour and minute pair.
func ParseTimeOfDay(raw string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidTimeFormat
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidTimeFormat
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrInvalidTimeFormat
	}

	if err := reminder.ValidateTimeOfDay(hour, minute); err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

// formatDelay renders a countdown like "19h 0m" or "4m 10s".
func formatDelay(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func formatReminders(schedules []*reminder.Schedule) string {
	if len(schedules) == 0 {
		return "No reminders set"
	}
	clocks := make([]string, 0, len(schedules))
	for _, s := range schedules {
		clocks = append(clocks, s.Clock())
	}
	return "Reminders: " + strings.Join(clocks, ", ")
}
