package import_feature

import (
	"context"
	"time"

	"career-console/internal/backend"
	"career-console/internal/identity"

	"go.uber.org/zap"
)

// DefaultPollInterval is the fixed job-status polling period.
const DefaultPollInterval = 2 * time.Second

type JobFetcher interface {
	GetJob(ctx context.Context, sess identity.Session, jobID string) (*backend.ImportJob, error)
}

// Poller queries a job until it reaches a terminal status.
type Poller struct {
	fetcher  JobFetcher
	interval time.Duration
	log      *zap.Logger
}

func NewPoller(fetcher JobFetcher, interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{fetcher: fetcher, interval: interval, log: log}
}

// Poll fetches the job immediately and then once per interval, calling
// onUpdate with every successful result. Fetch errors are logged and polling
// continues; only a terminal status or ctx cancellation ends the loop.
func (p *Poller) Poll(ctx context.Context, sess identity.Session, jobID string, onUpdate func(backend.ImportJob)) (*backend.ImportJob, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		job, err := p.fetcher.GetJob(ctx, sess, jobID)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			failures++
			p.log.Debug("Job poll failed, retrying",
				zap.String("job_id", jobID),
				zap.Int("consecutive_failures", failures),
				zap.Error(err))
		default:
			failures = 0
			if onUpdate != nil {
				onUpdate(*job)
			}
			if job.Status.IsTerminal() {
				p.log.Info("Job reached terminal status",
					zap.String("job_id", jobID),
					zap.String("status", string(job.Status)))
				return job, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
