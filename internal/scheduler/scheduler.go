// Package scheduler runs the daily tracking pass and the weekly owner
// roll import on cron schedules.
package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"listing-tracker/internal/ownerroll"
	"listing-tracker/internal/pipeline"
)

// Scheduler owns the cron instance and the two jobs.
type Scheduler struct {
	cron     *cron.Cron
	runner   *pipeline.Runner
	importer *ownerroll.Importer
	runSpec  string
	rollSpec string

	// mu serializes jobs: a run and a roll import never overlap, and a
	// slow run cannot overlap the next tick.
	mu        sync.Mutex
	isRunning bool
}

// New creates a Scheduler. The importer may be nil to disable the roll job.
func New(runner *pipeline.Runner, importer *ownerroll.Importer, runSpec, rollSpec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		importer: importer,
		runSpec:  runSpec,
		rollSpec: rollSpec,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.runSpec, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		log.Println("[scheduler] starting daily tracking run")
		result, err := s.runner.Run(ctx)
		if err != nil {
			log.Printf("[scheduler] daily run failed: %v", err)
			return
		}
		rep := result.Report
		log.Printf("[scheduler] daily run done: %d tracked, %d new, %d removed, %d aged",
			rep.TotalTracked, len(rep.NewKeys), len(rep.Removed), len(rep.Aged))
	})
	if err != nil {
		return err
	}

	if s.importer != nil {
		_, err = s.cron.AddFunc(s.rollSpec, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			log.Println("[scheduler] starting owner roll import")
			result, err := s.importer.Run(ctx)
			if err != nil {
				log.Printf("[scheduler] roll import failed: %v", err)
				return
			}
			log.Printf("[scheduler] roll import done: %d parcels from %d counties",
				result.Parcels, result.CountiesLoaded)
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("[scheduler] started (run %q, roll %q)", s.runSpec, s.rollSpec)
	return nil
}

// Stop stops the cron loop. Running jobs finish.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("[scheduler] stopped")
	}
}
