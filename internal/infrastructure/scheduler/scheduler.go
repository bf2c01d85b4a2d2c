// Package scheduler runs the agent's periodic background jobs: the liveness
// sweep over the peer registry and the recurring status report.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/progress"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/hub"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/ledger"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// Config holds the cron specs for the background jobs.
type Config struct {
	// StatusSpec schedules the status report (cron spec or @every form).
	StatusSpec string

	// SweepSpec schedules the stale-agent sweep.
	SweepSpec string
}

// DefaultConfig matches the original cadence of a status report per minute.
func DefaultConfig() Config {
	return Config{
		StatusSpec: "@every 1m",
		SweepSpec:  "@every 2m",
	}
}

// jobTimeout bounds each job run.
const jobTimeout = 30 * time.Second

// Scheduler owns the cron runner.
type Scheduler struct {
	cron     *cron.Cron
	config   Config
	sessions *history.Manager
	registry *hub.Registry
	progress progress.Repository
	ledger   *ledger.Ledger
	log      *logger.Logger
}

// New creates a scheduler. Jobs are registered on Start.
func New(cfg Config, sessions *history.Manager, registry *hub.Registry, repo progress.Repository, audit *ledger.Ledger, log *logger.Logger) *Scheduler {
	if cfg.StatusSpec == "" {
		cfg.StatusSpec = DefaultConfig().StatusSpec
	}
	if cfg.SweepSpec == "" {
		cfg.SweepSpec = DefaultConfig().SweepSpec
	}
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		config:   cfg,
		sessions: sessions,
		registry: registry,
		progress: repo,
		ledger:   audit,
		log:      log,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.StatusSpec, s.reportStatus); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.config.SweepSpec, s.sweepAgents); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started",
		logger.String("status_spec", s.config.StatusSpec),
		logger.String("sweep_spec", s.config.SweepSpec))
	return nil
}

// Stop stops the cron runner and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// reportStatus logs a one-line health summary of the agent's state.
func (s *Scheduler) reportStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	students := 0
	if s.progress != nil {
		n, err := s.progress.Count(ctx)
		if err != nil {
			s.log.Warn("status report: progress count failed", logger.Err(err))
		} else {
			students = n
		}
	}

	s.log.Info("agent status",
		logger.Int("active_sessions", s.sessions.Sessions()),
		logger.Int("students", students),
		logger.Int("connected_agents", s.registry.Count()),
		logger.Int("ledger_records", s.ledger.Len()))
}

// sweepAgents drops peers that missed their heartbeats.
func (s *Scheduler) sweepAgents() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if expired := s.registry.SweepStale(ctx); len(expired) > 0 {
		s.log.Info("stale agents removed", logger.Int("count", len(expired)))
	}
}
