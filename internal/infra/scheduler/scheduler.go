package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"daily_reminder_bot/internal/domain/reminder"
	applog "daily_reminder_bot/internal/infra/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const defaultFireTimeout = 1 * time.Minute

// ReminderScheduler persists daily reminders and keeps one live job per stored schedule.
type ReminderScheduler struct {
	cronEngine  *cron.Cron
	repo        reminder.Repository
	registry    *JobRegistry
	fire        FireFunc
	logger      *logrus.Entry
	delay       DelayFunc
	now         func() time.Time
	fireTimeout time.Duration
	reconciled  atomic.Bool
}

type Option func(*ReminderScheduler)

// WithDelayFunc replaces reminder.NextDelay. Tests use it to fire jobs quickly.
func WithDelayFunc(d DelayFunc) Option {
	return func(s *ReminderScheduler) { s.delay = d }
}

// WithClock sets the clock used for the delay reported by RegisterReminder.
func WithClock(now func() time.Time) Option {
	return func(s *ReminderScheduler) { s.now = now }
}

// WithFireTimeout bounds a single delivery.
func WithFireTimeout(d time.Duration) Option {
	return func(s *ReminderScheduler) { s.fireTimeout = d }
}

func NewReminderScheduler(repo reminder.Repository, fire FireFunc, logger *logrus.Entry, opts ...Option) *ReminderScheduler {
	cronLogger := applog.CronAdapter{Entry: logger.WithField("component", "cron")}
	s := &ReminderScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // reminders follow the server's wall clock
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		repo:        repo,
		registry:    NewJobRegistry(),
		fire:        fire,
		logger:      logger,
		delay:       reminder.NextDelay,
		now:         time.Now,
		fireTimeout: defaultFireTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReminderScheduler) Start() {
	s.cronEngine.Start()
	s.logger.Info("Reminder scheduler started")
}

// Stop stops the engine, waits for running deliveries (bounded by ctx) and cancels every job.
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping reminder scheduler...")
	done := s.cronEngine.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for running reminders")
		return ctx.Err()
	}
	n := s.registry.Shutdown()
	s.logger.WithField("jobs", n).Info("Reminder scheduler gracefully stopped")
	return nil
}

func (s *ReminderScheduler) arm(rec reminder.Schedule) (*JobHandle, time.Duration) {
	return armJob(s.cronEngine, rec, s.fire, s.delay, s.now(), s.fireTimeout, s.logger)
}

// RegisterReminder stores a new daily reminder, arms its job and returns the delay until the first fire.
// Nothing is armed when the store rejects the record.
func (s *ReminderScheduler) RegisterReminder(ctx context.Context, conversationID, ownerID int64, hour, minute int) (time.Duration, error) {
	if err := reminder.ValidateTimeOfDay(hour, minute); err != nil {
		return 0, err
	}

	var first time.Duration
	err := s.registry.Update(conversationID, func(set *JobSet) error {
		rec, err := s.repo.Create(ctx, conversationID, ownerID, hour, minute)
		if err != nil {
			return err
		}
		h, delay := s.arm(*rec)
		set.Add(h)
		first = delay
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"owner_id":        ownerID,
		"next_in":         first.Round(time.Second).String(),
	}).Info("Reminder registered")
	return first, nil
}

// ResetReminders cancels the conversation's jobs and then deletes its stored schedules.
// It returns the number of cancelled jobs. A failed delete is reported but never re-arms a job.
func (s *ReminderScheduler) ResetReminders(ctx context.Context, conversationID int64) (int, error) {
	var (
		cancelled int
		deleted   int
	)
	err := s.registry.Update(conversationID, func(set *JobSet) error {
		cancelled = set.CancelAll()

		records, err := s.repo.ListByConversation(ctx, conversationID)
		if err != nil {
			return err
		}
		var errs []error
		for _, rec := range records {
			if err := s.repo.Delete(ctx, rec.ID); err != nil {
				errs = append(errs, err)
				continue
			}
			deleted++
		}
		return errors.Join(errs...)
	})

	log := s.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"cancelled":       cancelled,
		"deleted":         deleted,
	})
	if err != nil {
		log.WithError(err).Error("Reminder reset incomplete")
		return cancelled, fmt.Errorf("reset reminders for conversation %d: %w", conversationID, err)
	}
	log.Info("Reminders reset")
	return cancelled, nil
}

// ListReminders returns the conversation's stored schedules ordered by time of day.
func (s *ReminderScheduler) ListReminders(ctx context.Context, conversationID int64) ([]*reminder.Schedule, error) {
	records, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MinutesOfDay() < records[j].MinutesOfDay()
	})
	return records, nil
}

// ActiveJobs reports how many live jobs the conversation has.
func (s *ReminderScheduler) ActiveJobs(conversationID int64) int {
	return s.registry.Count(conversationID)
}

// ReconcileAtStartup arms one job for every stored schedule. It must run once,
// before the transport accepts requests; a second call returns reminder.ErrAlreadyReconciled.
func (s *ReminderScheduler) ReconcileAtStartup(ctx context.Context) (int, error) {
	if !s.reconciled.CompareAndSwap(false, true) {
		return 0, reminder.ErrAlreadyReconciled
	}

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.reconciled.Store(false)
		return 0, err
	}

	conversations := make(map[int64]int)
	for _, rec := range records {
		h, _ := s.arm(*rec)
		s.registry.Add(rec.ConversationID, h)
		conversations[rec.ConversationID]++
	}

	s.logger.WithFields(logrus.Fields{
		"jobs":          len(records),
		"conversations": len(conversations),
	}).Info("Reminders reconciled from store")
	return len(records), nil
}
