package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Poller is anything that can refresh itself on a schedule.
type Poller interface {
	Name() string
	Poll(ctx context.Context) error
}

// PollWorker refreshes a feed immediately and then on every tick until its
// context is cancelled.
type PollWorker struct {
	target   Poller
	interval time.Duration
}

// NewPollWorker constructs a PollWorker.
func NewPollWorker(target Poller, interval time.Duration) *PollWorker {
	return &PollWorker{
		target:   target,
		interval: interval,
	}
}

// Start runs the poll loop. It blocks until ctx is done.
func (w *PollWorker) Start(ctx context.Context) {
	log.Info().Str("feed", w.target.Name()).Dur("interval", w.interval).Msg("Starting poll worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Str("feed", w.target.Name()).Msg("Poll worker stopped")
			return
		}
	}
}

func (w *PollWorker) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := w.target.Poll(ctx); err != nil {
		log.Warn().Err(err).Str("feed", w.target.Name()).Msg("Feed poll failed")
		return
	}
	log.Debug().Str("feed", w.target.Name()).Dur("duration", time.Since(start)).Msg("Feed poll completed")
}
