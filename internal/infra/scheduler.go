package infra

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"signalwired/internal/usecase"
)

// Scheduler triggers signal generation cycles on a fixed schedule.
type Scheduler struct {
	cron      *cron.Cron
	generator *usecase.SignalGenerator
	spec      string
	log       zerolog.Logger
}

// NewScheduler creates a new scheduler with a cron spec such as
// "*/15 * * * *".
func NewScheduler(generator *usecase.SignalGenerator, spec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		generator: generator,
		spec:      spec,
		log:       log,
	}
}

// Start registers the generation job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.log.Info().Str("spec", s.spec).Msg("scheduled signal generation triggered")
		s.generator.GenerateSignals(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// RunNow runs one cycle immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) usecase.CycleResult {
	return s.generator.GenerateSignals(ctx)
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}
