package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"gareport/internal/domain"
	"gareport/internal/reports"
	"gareport/internal/service/query"
)

// ErrAlreadyStarted is returned by Start on a scheduler that was already started.
var ErrAlreadyStarted = errors.New("scheduler already started")

// QueryRunner is the query service used by scheduled jobs.
type QueryRunner interface {
	reports.Runner
	Run(ctx context.Context, viewID string, payload domain.QueryPayload, mode domain.OutputMode) (*query.Result, error)
}

// OpenFunc opens the writer for a job destination.
type OpenFunc func(ctx context.Context, dest string, appendTo bool) (domain.TableWriter, error)

// Entry describes a registered job.
type Entry struct {
	Name string
	Cron string
	Next time.Time // zero until the scheduler is started
}

// Scheduler manages cron-based report execution.
type Scheduler struct {
	cron    *cron.Cron
	svc     QueryRunner
	open    OpenFunc
	logger  *slog.Logger
	mu      sync.Mutex
	jobs    map[string]Job
	entries map[string]cron.EntryID // job name → cron entry
	cancel  context.CancelFunc
}

// NewScheduler creates a new scheduler for the given jobs.
func NewScheduler(svc QueryRunner, open OpenFunc, jobs []Job, logger *slog.Logger) (*Scheduler, error) {
	if err := ValidateJobs(jobs); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	byName := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}
	return &Scheduler{
		cron:    cron.New(),
		svc:     svc,
		open:    open,
		logger:  logger,
		jobs:    byName,
		entries: make(map[string]cron.EntryID),
	}, nil
}

// Start registers every job and starts the cron scheduler. Job runs use a
// context derived from ctx that is cancelled by Stop. A Scheduler can be
// started once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	for _, name := range s.names() {
		job := s.jobs[name]
		entryID, err := s.cron.AddFunc(job.Cron, func() {
			if err := s.run(runCtx, job); err != nil {
				s.logger.Warn("scheduled job failed", "job", job.Name, "error", err)
			}
		})
		if err != nil {
			cancel()
			return fmt.Errorf("schedule job %q: %w", job.Name, err)
		}
		s.entries[job.Name] = entryID
		s.logger.Info("scheduled job", "job", job.Name, "schedule", job.Cron, "destination", job.Destination)
	}
	s.cancel = cancel
	s.cron.Start()
	s.logger.Info("report scheduler started", "jobs", len(s.entries))
	return nil
}

// Stop stops the cron scheduler, cancels running jobs and waits for them
// to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	s.logger.Info("report scheduler stopped")
}

// Entries lists the registered jobs sorted by name.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.jobs))
	for _, name := range s.names() {
		e := Entry{Name: name, Cron: s.jobs[name].Cron}
		if id, ok := s.entries[name]; ok {
			e.Next = s.cron.Entry(id).Next
		}
		out = append(out, e)
	}
	return out
}

// RunOnce runs the named job immediately.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return domain.ErrValidation("unknown job %q", name)
	}
	return s.run(ctx, job)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	start := time.Now()
	logger := s.logger.With("job", job.Name, "view_id", job.ViewID)

	table, err := s.table(ctx, job)
	if err != nil {
		return err
	}

	w, err := s.open(ctx, job.Destination, job.Append)
	if err != nil {
		return fmt.Errorf("open destination %q: %w", job.Destination, err)
	}
	if err := w.Write(ctx, table); err != nil {
		return fmt.Errorf("write destination %q: %w", job.Destination, err)
	}

	logger.Info("scheduled job completed",
		"rows", table.Len(),
		"destination", job.Destination,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Scheduler) table(ctx context.Context, job Job) (*domain.StructuredTable, error) {
	if job.Report != "" {
		tmpl, err := reports.Lookup(job.Report)
		if err != nil {
			return nil, err
		}
		return tmpl.Run(ctx, s.svc, reports.Params{
			ViewID:    job.ViewID,
			StartDate: job.Query.StartDate,
			EndDate:   job.Query.EndDate,
			Segment:   job.Query.Segment,
			Filters:   job.Query.Filters,
		})
	}

	res, err := s.svc.Run(ctx, job.ViewID, job.Query, job.Output)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// names returns job names in a stable order. Callers hold s.mu.
func (s *Scheduler) names() []string {
	names := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
