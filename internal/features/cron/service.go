package cron_feature

import (
	"context"
	"fmt"
	"sync"
	"time"

	"career-console/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper closes sessions that have been idle longer than ttl.
type Sweeper interface {
	SweepIdle(ctx context.Context, ttl time.Duration) (int, error)
}

// NamedSweeper pairs a sweeper with the name used in run history.
type NamedSweeper struct {
	Name    string
	Sweeper Sweeper
}

type SweepService interface {
	InitializeScheduler() error
	StopScheduler()
	RunNow(ctx context.Context, trigger string) (*SweepRun, error)
	ListRuns(ctx context.Context, limit int) ([]SweepRun, error)
}

type SweepServiceImpl struct {
	repo     SweepRunRepository
	sweepers []NamedSweeper
	schedule string
	ttl      time.Duration
	log      *zap.Logger

	scheduler *cron.Cron
	running   sync.Mutex
}

func NewSweepService(repo SweepRunRepository, sweepers []NamedSweeper, cfg *config.Config, log *zap.Logger) SweepService {
	return &SweepServiceImpl{
		repo:     repo,
		sweepers: sweepers,
		schedule: cfg.SweepSchedule,
		ttl:      cfg.SessionTTL,
		log:      log.Named("sweep"),
	}
}

func (s *SweepServiceImpl) InitializeScheduler() error {
	if s.schedule == "" {
		s.log.Info("Idle-session sweep disabled")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule: %w", err)
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, func() {
		if _, err := s.RunNow(context.Background(), "schedule"); err != nil {
			s.log.Error("Scheduled sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to add sweep to scheduler: %w", err)
	}

	s.log.Info("Starting idle-session sweep", zap.String("schedule", s.schedule), zap.Duration("ttl", s.ttl))
	s.scheduler.Start()
	return nil
}

func (s *SweepServiceImpl) StopScheduler() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}

// RunNow sweeps every registered store once. Concurrent runs are serialized.
func (s *SweepServiceImpl) RunNow(ctx context.Context, trigger string) (*SweepRun, error) {
	s.running.Lock()
	defer s.running.Unlock()

	run := &SweepRun{Trigger: trigger, StartedAt: time.Now()}
	failures := 0
	for _, sw := range s.sweepers {
		closed, err := sw.Sweeper.SweepIdle(ctx, s.ttl)
		res := SweepResult{Sweeper: sw.Name, Closed: closed}
		if err != nil {
			failures++
			res.Error = err.Error()
			s.log.Warn("Sweeper failed", zap.String("sweeper", sw.Name), zap.Error(err))
		}
		run.Results = append(run.Results, res)
	}

	run.CompletedAt = time.Now()
	run.DurationMs = run.CompletedAt.Sub(run.StartedAt).Milliseconds()
	switch {
	case failures == 0:
		run.Status = SweepStatusSuccess
	case failures < len(s.sweepers):
		run.Status = SweepStatusPartial
	default:
		run.Status = SweepStatusFailed
	}

	if total := run.TotalClosed(); total > 0 {
		s.log.Info("Closed idle sessions", zap.Int("closed", total), zap.String("trigger", trigger))
	}
	if err := s.repo.Create(ctx, run); err != nil {
		return run, fmt.Errorf("record sweep run: %w", err)
	}
	return run, nil
}

func (s *SweepServiceImpl) ListRuns(ctx context.Context, limit int) ([]SweepRun, error) {
	if limit <= 0 || limit > maxMemoryRuns {
		limit = 20
	}
	return s.repo.List(ctx, limit)
}
