package import_feature

import (
	"context"
	"fmt"
	"time"

	"career-console/internal/backend"
	"career-console/internal/identity"

	"go.uber.org/zap"
)

type Uploader interface {
	UploadImport(ctx context.Context, sess identity.Session, req backend.UploadRequest) (*backend.UploadResponse, error)
}

const (
	progressStep     = 10
	progressInterval = 200 * time.Millisecond
)

// Submitter runs the Submit step: one upload followed by job polling.
type Submitter struct {
	uploader Uploader
	poller   *Poller
	log      *zap.Logger
	tick     time.Duration
}

func NewSubmitter(uploader Uploader, poller *Poller, log *zap.Logger) *Submitter {
	return &Submitter{uploader: uploader, poller: poller, log: log, tick: progressInterval}
}

// Run uploads the wizard's file and polls the resulting job, calling notify
// after every observable change. The upload itself is not cancelled with ctx;
// polling is.
func (s *Submitter) Run(ctx context.Context, sess identity.Session, w *Wizard, notify func()) error {
	if notify == nil {
		notify = func() {}
	}

	req, err := w.BeginUpload()
	if err != nil {
		return err
	}
	notify()

	log := s.log.With(zap.String("session_id", w.ID()), zap.String("target_table", req.TargetTable))

	progressCtx, stopProgress := context.WithCancel(ctx)
	go s.simulateProgress(progressCtx, w, notify)

	resp, err := s.uploader.UploadImport(context.WithoutCancel(ctx), sess, req)
	stopProgress()
	if err != nil {
		log.Warn("Import upload failed", zap.Error(err))
		w.UploadFailed(err)
		notify()
		return fmt.Errorf("upload: %w", err)
	}

	jobID := resp.JobID.String()
	if err := w.UploadSucceeded(jobID, resp.Message); err != nil {
		return err
	}
	notify()

	return s.Resume(ctx, sess, w, notify)
}

// Resume polls the wizard's job until it is terminal or ctx is cancelled.
func (s *Submitter) Resume(ctx context.Context, sess identity.Session, w *Wizard, notify func()) error {
	if notify == nil {
		notify = func() {}
	}
	jobID := w.Snapshot().Submission.JobID
	_, err := s.poller.Poll(ctx, sess, jobID, func(job backend.ImportJob) {
		if w.JobUpdated(job) {
			notify()
		}
	})
	return err
}

func (s *Submitter) simulateProgress(ctx context.Context, w *Wizard, notify func()) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress += progressStep
			if w.SetUploadProgress(progress) {
				notify()
			}
			if progress >= maxSimulatedProgress {
				return
			}
		}
	}
}
