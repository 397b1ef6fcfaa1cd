// Package scheduler re-invokes the pipeline on a cron schedule. The
// pipeline itself has no notion of time; this is the external timer the
// design delegates periodic execution to.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/Sakshikhade/wee-price-tracker/pipeline"
)

type Scheduler struct {
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	spec     string
}

// New creates a scheduler that runs the pipeline according to the cron
// spec, e.g. "0 9 * * *" for daily at 09:00.
func New(p *pipeline.Pipeline, spec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		spec:     spec,
	}
}

// Start registers the schedule and kicks off an immediate run, matching
// the tracker's long-standing run-on-startup behavior.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	go s.runOnce(ctx)

	s.cron.Start()
	log.Printf("Price tracker scheduled with spec %q", s.spec)
	return nil
}

// Stop halts the schedule. In-flight runs finish on their own.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log.Printf("🕒 Running scheduled price check")
	if _, err := s.pipeline.Run(ctx); err != nil {
		log.Printf("Scheduled run failed: %v", err)
	}
}
