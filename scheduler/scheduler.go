package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

// Service wraps a gocron scheduler behind an explicit handle constructed
// once in main and passed to whoever registers jobs.
type Service struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	stopOnce  sync.Once
	stopErr   error
}

func New(logger *slog.Logger) (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						slog.String("job_id", jobID.String()),
						slog.String("job_name", jobName),
						slog.Any("panic", recoverData))
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Service{scheduler: sched, logger: logger}, nil
}

// AddJob registers a cron-based job. Jobs run in singleton mode: a slow
// run is never overlapped by the next tick.
func (s *Service) AddJob(name, cronExpr string, task func()) (gocron.Job, error) {
	if name == "" {
		return nil, ErrEmptyJobName
	}
	if cronExpr == "" {
		return nil, ErrEmptyCronExpr
	}

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register job %q: %w", name, err)
	}
	s.logger.Info("scheduler job registered", slog.String("job_name", name), slog.String("cron", cronExpr))
	return job, nil
}

// Start begins running registered jobs.
func (s *Service) Start() {
	s.scheduler.Start()
	s.logger.Info("scheduler started")
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.scheduler.Shutdown()
		if s.stopErr == nil {
			s.logger.Info("scheduler stopped")
		}
	})
	return s.stopErr
}
