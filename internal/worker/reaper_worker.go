package worker

import (
	"context"
	"time"

	"github.com/pmmpclub/prep-backend/internal/session"
	"github.com/rs/zerolog"
)

// ReaperWorker stops quiz sessions whose learner has gone quiet. An
// abandoned in-progress quiz is finalized the same way an explicit
// stop would be, so the learner still finds a report afterwards.
type ReaperWorker struct {
	controller *session.Controller
	ttl        time.Duration
	interval   time.Duration
	log        zerolog.Logger
}

// NewReaperWorker creates a new ReaperWorker. interval defaults to one
// minute when zero.
func NewReaperWorker(controller *session.Controller, ttl, interval time.Duration, log zerolog.Logger) *ReaperWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReaperWorker{
		controller: controller,
		ttl:        ttl,
		interval:   interval,
		log:        log.With().Str("component", "reaper_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ReaperWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if reaped := w.controller.ReapIdle(ctx, w.ttl); reaped > 0 {
				w.log.Info().Int("sessions", reaped).Msg("Reaped idle sessions")
			}
		}
	}
}
