// Package jobs runs recurring background work.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stwalsh4118/rms/internal/logger"
)

// ReminderSender is the part of the reminder service the sweep needs.
type ReminderSender interface {
	SendDueRentReminders(ctx context.Context, date time.Time) (int, error)
}

// Scheduler wraps a gocron scheduler with named jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *logger.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewScheduler creates a stopped scheduler. Options are passed to gocron.
func NewScheduler(log *logger.Logger, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		scheduler: s,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// Start starts running registered jobs.
func (s *Scheduler) Start() {
	s.log.Info("Starting background job scheduler", logger.Fields{"jobs": len(s.JobNames())})
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.log.Info("Stopping background job scheduler", nil)
	return s.scheduler.Shutdown()
}

// AddCronJob registers task under name on a five-field cron expression.
// A run still in progress when the next one is due is rescheduled instead
// of overlapping.
func (s *Scheduler) AddCronJob(name, cron string, task func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(s.wrap(name, task)),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	s.jobs[name] = job
	s.log.Info("Registered background job", logger.Fields{"job": name, "cron": cron})
	return nil
}

// RemoveJob unregisters the named job. Unknown names are ignored.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[name]
	if !exists {
		return nil
	}
	delete(s.jobs, name)
	return s.scheduler.RemoveJob(job.ID())
}

// JobNames returns the registered job names.
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// NextRun returns when the named job runs next.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return time.Time{}, fmt.Errorf("job %q not registered", name)
	}
	return job.NextRun()
}

// RunNow triggers the named job immediately without changing its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %q not registered", name)
	}
	return job.RunNow()
}

func (s *Scheduler) wrap(name string, task func(ctx context.Context) error) func() {
	return func() {
		start := time.Now()
		if err := task(context.Background()); err != nil {
			s.log.Error("Background job failed", err, logger.Fields{"job": name})
			return
		}
		s.log.Debug("Background job finished", logger.Fields{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// DueRentSweep returns a task that mails the reminders due today.
func DueRentSweep(reminders ReminderSender, log *logger.Logger, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sent, err := reminders.SendDueRentReminders(ctx, now())
		if err != nil {
			return err
		}
		log.Info("Due rent sweep complete", logger.Fields{"sent": sent})
		return nil
	}
}
