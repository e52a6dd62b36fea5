package telegram

import (
	"errors"
	"testing"
	"time"

	"daily_reminder_bot/internal/domain/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in     string
		hour   int
		minute int
	}{
		{"14:30", 14, 30},
		{"8:05", 8, 5},
		{" 00:00 ", 0, 0},
		{"23:59", 23, 59},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseTimeOfDay(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}

func TestParseTimeOfDay_Malformed(t *testing.T) {
	for _, in := range []string{"", "14", "14:30:00", "ab:cd", "14:"} {
		_, _, err := ParseTimeOfDay(in)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, in)
	}
}

func TestParseTimeOfDay_OutOfRange(t *testing.T) {
	for _, in := range []string{"24:00", "12:60", "-1:10"} {
		_, _, err := ParseTimeOfDay(in)
		var verr *reminder.ValidationError
		assert.True(t, errors.As(err, &verr), in)
	}
}

func TestFormatDelay(t *testing.T) {
	assert.Equal(t, "30m 0s", formatDelay(30*time.Minute))
	assert.Equal(t, "19h 0m", formatDelay(19*time.Hour))
	assert.Equal(t, "24h 0m", formatDelay(24*time.Hour))
	assert.Equal(t, "1h 1m", formatDelay(time.Hour+time.Minute+30*time.Second))
	assert.Equal(t, "45s", formatDelay(45*time.Second))
}

func TestFormatReminders(t *testing.T) {
	assert.Equal(t, "No reminders set", formatReminders(nil))
	got := formatReminders([]*reminder.Schedule{{Hour: 8}, {Hour: 21, Minute: 30}})
	assert.Equal(t, "Reminders: 08:00, 21:30", got)
}
