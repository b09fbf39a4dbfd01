package worker

import (
	"fmt"
	"sync"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	defaultInterval  = time.Hour
	defaultRetention = 30 * 24 * time.Hour
)

// JobFunc defines the function signature for scheduled operations
type JobFunc func() error

// ScheduledWorker runs a job on a fixed interval using cron
type ScheduledWorker struct {
	name     string
	cron     *cron.Cron
	job      JobFunc
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	entryID cron.EntryID
}

// NewScheduledWorker creates a cron-scheduled worker with validation and defaults
func NewScheduledWorker(cfg *config.WorkerConfig, name string, job JobFunc, log *logger.Logger) (*ScheduledWorker, error) {
	interval, err := parseDuration(cfgValue(cfg, func(c *config.WorkerConfig) string { return c.Interval }), defaultInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid worker interval: %w", err)
	}

	return &ScheduledWorker{
		name:     name,
		cron:     cron.New(),
		job:      job,
		interval: interval,
		logger:   log.WithComponent("scheduled-worker").WithField("worker", name),
	}, nil
}

// Start schedules the job and starts the cron loop
func (w *ScheduledWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.entryID > 0 {
		return fmt.Errorf("worker %s already started", w.name)
	}

	w.logger.Info(fmt.Sprintf("Starting worker: %s (every %v)", w.name, w.interval))

	entryID, err := w.cron.AddFunc("@every "+w.interval.String(), func() {
		_ = w.RunNow()
	})
	if err != nil {
		w.logger.Error("Failed to schedule worker " + w.name + ": " + err.Error())
		return err
	}

	w.entryID = entryID
	w.cron.Start()

	return nil
}

// RunNow executes the job once, outside the schedule
func (w *ScheduledWorker) RunNow() error {
	w.logger.Debug("Executing job for worker: " + w.name)

	if err := w.job(); err != nil {
		w.logger.Error("Job failed for worker " + w.name + ": " + err.Error())
		return err
	}

	w.logger.Debug("Job completed for worker: " + w.name)
	return nil
}

// Stop removes the schedule and waits for a running job to finish
func (w *ScheduledWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.logger.Info("Stopping worker: " + w.name)

	if w.entryID > 0 {
		w.cron.Remove(w.entryID)
		w.entryID = 0
	}

	ctx := w.cron.Stop()
	<-ctx.Done()

	w.logger.Info("Worker stopped: " + w.name)

	return nil
}

// IsRunning checks if the worker has active cron entries
func (w *ScheduledWorker) IsRunning() bool {
	return len(w.cron.Entries()) > 0
}

// Interval returns the configured schedule interval
func (w *ScheduledWorker) Interval() time.Duration {
	return w.interval
}

// NewHistoryPruner schedules deletion of viewed interactions older than the
// configured retention. Likes are never pruned.
func NewHistoryPruner(cfg *config.WorkerConfig, interactions interaction.Service, log *logger.Logger) (*ScheduledWorker, error) {
	retention, err := HistoryRetention(cfg)
	if err != nil {
		return nil, err
	}

	return NewScheduledWorker(cfg, "history-pruner", func() error {
		_, err := interactions.PruneViewed(retention)
		return err
	}, log)
}

// HistoryRetention parses the retention window, defaulting to 30 days
func HistoryRetention(cfg *config.WorkerConfig) (time.Duration, error) {
	retention, err := parseDuration(cfgValue(cfg, func(c *config.WorkerConfig) string { return c.HistoryRetention }), defaultRetention)
	if err != nil {
		return 0, fmt.Errorf("invalid history retention: %w", err)
	}
	return retention, nil
}

func cfgValue(cfg *config.WorkerConfig, get func(*config.WorkerConfig) string) string {
	if cfg == nil {
		return ""
	}
	return get(cfg)
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", raw)
	}
	return duration, nil
}
