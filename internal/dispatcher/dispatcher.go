package dispatcher

import (
	"context"
	"time"

	"performance-prime/internal/common/logger"
	"performance-prime/internal/common/metrics"
	"performance-prime/internal/common/observability"
	"performance-prime/internal/models"
)

// ScheduleStore is the slice of the reminder store the dispatcher needs.
type ScheduleStore interface {
	FetchDue(ctx context.Context, now time.Time, limit int) ([]models.ScheduledNotification, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id, errMsg string) error
}

// FeedStore inserts the in-app entry that delivery produces.
type FeedStore interface {
	Insert(ctx context.Context, n *models.LiveNotification) error
}

// Deliverer fans a sent reminder out to its external channels. Channel
// failures are best effort and never roll back the sent transition.
type Deliverer interface {
	Deliver(ctx context.Context, n models.ScheduledNotification)
}

// Config holds polling knobs.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	TickTimeout time.Duration
}

// Dispatcher polls for due reminders and transitions them to sent. An
// external cron may run the same sweep concurrently; the conditional
// update in MarkSent arbitrates, and the loser of the race skips the
// reminder. The feed insert happens before the status flip, so a crash
// in between can leave a duplicate feed entry. Delivery is at least
// once.
type Dispatcher struct {
	cfg       Config
	schedules ScheduleStore
	feed      FeedStore
	deliverer Deliverer
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

func New(cfg Config, schedules ScheduleStore, feed FeedStore, deliverer Deliverer, obs *observability.Observability, log logger.Logger) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = 20 * time.Second
	}
	return &Dispatcher{
		cfg:       cfg,
		schedules: schedules,
		feed:      feed,
		deliverer: deliverer,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "dispatcher"}),
		now:       time.Now,
	}
}

// Run polls until the context is cancelled. The first sweep happens
// immediately rather than one interval in.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("dispatcher started", map[string]interface{}{
		"interval":  d.cfg.Interval.String(),
		"batchSize": d.cfg.BatchSize,
	})

	d.tick(ctx)

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopped", nil)
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	start := d.now()
	tickCtx, cancel := context.WithTimeout(ctx, d.cfg.TickTimeout)
	defer cancel()

	processed, err := d.Sweep(tickCtx)

	metrics.DispatcherTickDuration.Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
		d.logger.WithError(err).Error("dispatcher tick failed", nil)
	}
	if d.obs != nil {
		d.obs.RecordTickDuration(tickCtx, time.Since(start), status)
	}
	if processed > 0 {
		d.logger.Info("dispatcher tick complete", map[string]interface{}{
			"processed": processed,
		})
	}
}

// Sweep processes one batch of due reminders and returns how many were
// moved to sent. One failing reminder does not stop the batch.
func (d *Dispatcher) Sweep(ctx context.Context) (int, error) {
	due, err := d.schedules.FetchDue(ctx, d.now().UTC(), d.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, reminder := range due {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if d.process(ctx, reminder) {
			processed++
		}
	}
	return processed, nil
}

func (d *Dispatcher) process(ctx context.Context, reminder models.ScheduledNotification) bool {
	entry := &models.LiveNotification{
		ProfessionalID: reminder.ProfessionalID,
		Title:          reminder.Title,
		Message:        reminder.Message,
		Type:           reminder.Type,
		Data:           reminder.Data,
	}
	if err := d.feed.Insert(ctx, entry); err != nil {
		d.logger.WithError(err).Error("feed insert failed", map[string]interface{}{
			"reminderId": reminder.ID,
		})
		metrics.RemindersFailed.WithLabelValues(reminder.Type, "feed_insert").Inc()
		if markErr := d.schedules.MarkFailed(ctx, reminder.ID, err.Error()); markErr != nil {
			d.logger.WithError(markErr).Error("mark failed errored", map[string]interface{}{
				"reminderId": reminder.ID,
			})
		}
		return false
	}

	won, err := d.schedules.MarkSent(ctx, reminder.ID, d.now().UTC())
	if err != nil {
		d.logger.WithError(err).Error("mark sent failed", map[string]interface{}{
			"reminderId": reminder.ID,
		})
		metrics.RemindersFailed.WithLabelValues(reminder.Type, "mark_sent").Inc()
		return false
	}
	if !won {
		// Another sweeper got here first. The feed entry we just wrote
		// duplicates theirs; delivery stays at least once.
		d.logger.Warn("reminder already sent by concurrent sweep", map[string]interface{}{
			"reminderId": reminder.ID,
		})
		metrics.RemindersRaceLost.Inc()
		return false
	}

	metrics.RemindersProcessed.WithLabelValues(reminder.Type).Inc()
	if d.obs != nil {
		d.obs.RecordReminderProcessed(ctx, "sent")
	}

	if d.deliverer != nil && (reminder.EmailTo != "" || reminder.PushTarget != "") {
		d.deliverer.Deliver(ctx, reminder)
	}
	return true
}
