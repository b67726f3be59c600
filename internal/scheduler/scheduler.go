// Package scheduler runs background cache maintenance jobs on cron schedules.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrJobNotFound is returned by RunNow for unknown job names
var ErrJobNotFound = errors.New("job not found")

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobInfo describes a registered job
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule,omitempty"`
	Next     time.Time `json:"next,omitempty"`
}

type registration struct {
	job      Job
	schedule string
	entryID  cron.EntryID
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	mu   sync.Mutex
	jobs map[string]*registration
	log  zerolog.Logger
}

// New creates a new scheduler. Schedules use six fields (with seconds) or
// descriptors such as "@daily" and "@every 1h".
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		jobs: make(map[string]*registration),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 0 6 * * *"   - 06:00 every day
//   - "@daily"        - Midnight
//   - "@every 6h"     - Every six hours
func (s *Scheduler) AddJob(schedule string, job Job) error {
	id, err := s.cron.AddFunc(schedule, func() {
		s.execute(job)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, job.Name(), err)
	}

	s.mu.Lock()
	s.jobs[job.Name()] = &registration{job: job, schedule: schedule, entryID: id}
	s.mu.Unlock()

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// Register makes a job available to RunNow without scheduling it
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name()]; !ok {
		s.jobs[job.Name()] = &registration{job: job}
	}
}

// RunNow executes a registered job immediately (outside schedule)
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	reg, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrJobNotFound)
	}

	s.log.Info().Str("job", name).Msg("Running job immediately")
	return reg.job.Run()
}

// Jobs lists registered jobs by name
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, reg := range s.jobs {
		info := JobInfo{Name: name, Schedule: reg.schedule}
		if reg.schedule != "" {
			info.Next = s.cron.Entry(reg.entryID).Next
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (s *Scheduler) execute(job Job) {
	start := time.Now()
	s.log.Debug().Str("job", job.Name()).Msg("Running job")

	if err := job.Run(); err != nil {
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Msg("Job failed")
		return
	}

	s.log.Debug().
		Str("job", job.Name()).
		Dur("duration", time.Since(start)).
		Msg("Job completed")
}
