package scheduler

import (
	"context"
	"sync"
	"time"

	"daily_reminder_bot/internal/domain/reminder"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// FireFunc delivers one reminder. Its error is logged and otherwise ignored.
type FireFunc func(ctx context.Context, conversationID int64, s reminder.Schedule) error

// DelayFunc computes the wait until the next hour:minute after now.
type DelayFunc func(hour, minute int, now time.Time) time.Duration

// JobState is the lifecycle state of a JobHandle.
type JobState int

const (
	JobArmed JobState = iota
	JobCancelled
)

func (s JobState) String() string {
	if s == JobCancelled {
		return "cancelled"
	}
	return "armed"
}

// dailySchedule is a cron.Schedule that re-derives the next activation from the
// engine's wake-up time on every run.
type dailySchedule struct {
	hour, minute int
	delay        DelayFunc
}

func (d dailySchedule) Next(now time.Time) time.Time {
	return now.Add(d.delay(d.hour, d.minute, now))
}

// JobHandle is a live recurring timer bound to one persisted schedule.
// It stays armed across fires until Cancel is called.
type JobHandle struct {
	schedule    reminder.Schedule
	fire        FireFunc
	delay       DelayFunc
	fireTimeout time.Duration
	logger      *logrus.Entry

	engine  *cron.Cron
	entryID cron.EntryID

	// mu is held for the whole fire so Cancel waits out an in-flight delivery.
	mu        sync.Mutex
	cancelled bool
	fires     int
}

// armJob registers s with the engine and returns the handle together with the
// first delay measured from now.
func armJob(engine *cron.Cron, s reminder.Schedule, fire FireFunc, delay DelayFunc, now time.Time, fireTimeout time.Duration, logger *logrus.Entry) (*JobHandle, time.Duration) {
	h := &JobHandle{
		schedule:    s,
		fire:        fire,
		delay:       delay,
		fireTimeout: fireTimeout,
		engine:      engine,
		logger: logger.WithFields(logrus.Fields{
			"schedule_id":     s.ID,
			"conversation_id": s.ConversationID,
			"at":              s.Clock(),
		}),
	}
	h.entryID = engine.Schedule(dailySchedule{hour: s.Hour, minute: s.Minute, delay: delay}, cron.FuncJob(h.run))

	first := delay(s.Hour, s.Minute, now)
	h.logger.WithField("next_in", first.Round(time.Second).String()).Debug("Reminder armed")
	return h, first
}

func (h *JobHandle) run() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.fireTimeout)
	defer cancel()

	h.fires++
	if err := h.fire(ctx, h.schedule.ConversationID, h.schedule); err != nil {
		h.logger.WithError(err).Warn("Reminder delivery failed, will retry next cycle")
	} else {
		h.logger.Info("Reminder delivered")
	}
	// The engine re-arms from its own wake-up instant; this is only for the log line.
	next := h.delay(h.schedule.Hour, h.schedule.Minute, time.Now())
	h.logger.WithField("next_in", next.Round(time.Second).String()).Debug("Reminder re-armed")
}

// Cancel unarms the job. After it returns no further fire starts; a fire already
// in progress is allowed to finish first. Calling Cancel twice is a no-op.
func (h *JobHandle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	h.cancelled = true
	h.engine.Remove(h.entryID)
	h.logger.Debug("Reminder cancelled")
}

func (h *JobHandle) Schedule() reminder.Schedule {
	return h.schedule
}

func (h *JobHandle) State() JobState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return JobCancelled
	}
	return JobArmed
}

// Fires reports how many times the fire callback has been invoked.
func (h *JobHandle) Fires() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fires
}
