// Package scheduler runs recurring league syncs on cron schedules. Jobs are
// declared in YAML so operators can add leagues or change cadence without a
// rebuild.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/dynastyscope/dynastyscope/internal/application/pipeline"
)

// Syncer is the slice of the sync service the scheduler drives.
type Syncer interface {
	SyncLeague(ctx context.Context, leagueID string) (*pipeline.Result, error)
}

// Job is one scheduled league refresh.
type Job struct {
	Name     string `yaml:"name"`
	Schedule string `yaml:"schedule"` // standard 5-field cron, e.g. "*/30 * * * *"
	LeagueID string `yaml:"league_id"`
	Enabled  bool   `yaml:"enabled"`

	// Timeout bounds one run of this job. Zero means the default.
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the scheduler's YAML document.
type Config struct {
	Jobs []Job `yaml:"jobs"`
}

const defaultJobTimeout = 2 * time.Minute

// LoadConfig reads a scheduler config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheduler config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scheduler config: %w", err)
	}
	for i, job := range cfg.Jobs {
		if job.Name == "" {
			return nil, fmt.Errorf("scheduler job %d has no name", i)
		}
		if job.LeagueID == "" {
			return nil, fmt.Errorf("scheduler job %q has no league_id", job.Name)
		}
	}
	return &cfg, nil
}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron   *cron.Cron
	syncer Syncer
	ctx    context.Context

	mu      sync.Mutex
	running map[string]bool
}

// New creates a scheduler. ctx bounds every job run the scheduler starts.
func New(ctx context.Context, syncer Syncer) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		syncer:  syncer,
		ctx:     ctx,
		running: make(map[string]bool),
	}
}

// Register adds every enabled job to the cron runner.
func (s *Scheduler) Register(cfg *Config) error {
	for _, job := range cfg.Jobs {
		if !job.Enabled {
			log.Info().Str("job", job.Name).Msg("scheduler job disabled, skipping")
			continue
		}
		job := job
		if _, err := s.cron.AddFunc(job.Schedule, func() { s.runJob(job) }); err != nil {
			return fmt.Errorf("failed to register job %q: %w", job.Name, err)
		}
		log.Info().
			Str("job", job.Name).
			Str("schedule", job.Schedule).
			Str("league_id", job.LeagueID).
			Msg("scheduler job registered")
	}
	return nil
}

// Start begins firing jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes one job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) {
	s.runJob(job)
}

// runJob executes a single sync run. Overlapping runs of the same job are
// skipped rather than queued; a slow provider must not pile up work.
func (s *Scheduler) runJob(job Job) {
	s.mu.Lock()
	if s.running[job.Name] {
		s.mu.Unlock()
		log.Warn().Str("job", job.Name).Msg("previous run still in flight, skipping")
		return
	}
	s.running[job.Name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, job.Name)
		s.mu.Unlock()
	}()

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := s.syncer.SyncLeague(ctx, job.LeagueID)
	if err != nil {
		log.Error().Err(err).Str("job", job.Name).Str("league_id", job.LeagueID).
			Msg("scheduled sync failed")
		return
	}
	log.Info().
		Str("job", job.Name).
		Str("league_id", job.LeagueID).
		Int("teams", len(result.Teams)).
		Dur("duration", time.Since(start)).
		Msg("scheduled sync completed")
}
