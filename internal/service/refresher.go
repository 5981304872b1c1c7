package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher reloads the corpus on a fixed interval so newly published yearly
// archives are picked up without a restart.
type Refresher struct {
	scheduler *gocron.Scheduler
	service   *Service
	interval  time.Duration
	logger    *slog.Logger
}

// NewRefresher creates a Refresher. An interval of 0 disables scheduling.
func NewRefresher(service *Service, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic reload job and starts the scheduler.
func (r *Refresher) Start() error {
	if r.interval <= 0 {
		r.logger.Info("corpus reload disabled")
		return nil
	}

	_, err := r.scheduler.Every(r.interval).Do(func() {
		r.logger.Info("scheduled corpus reload starting")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := r.service.Refresh(ctx); err != nil {
			// Keep serving the previous corpus; the next tick retries.
			r.logger.Error("scheduled corpus reload failed", "error", err)
			return
		}
		r.logger.Info("scheduled corpus reload complete")
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	r.logger.Info("corpus reload scheduled", "interval", r.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
