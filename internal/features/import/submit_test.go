package import_feature

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"career-console/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPollerSwallowsErrorsUntilTerminal(t *testing.T) {
	fb := &fakeBackend{
		jobErrs: 2,
		jobs: []backend.ImportJob{
			{Status: backend.JobStatusPending},
			{Status: backend.JobStatusProcessing},
			{Status: backend.JobStatusCompleted, ValidRows: 5},
		},
	}
	p := NewPoller(fb, 5*time.Millisecond, zap.NewNop())

	var seen []backend.JobStatus
	job, err := p.Poll(context.Background(), userSession("a@x.com"), "job-1", func(j backend.ImportJob) {
		seen = append(seen, j.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, backend.JobStatusCompleted, job.Status)
	assert.Equal(t, []backend.JobStatus{backend.JobStatusPending, backend.JobStatusProcessing, backend.JobStatusCompleted}, seen)
	assert.Equal(t, 5, fb.pollCount())
}

func TestPollerStopsOnCancel(t *testing.T) {
	fb := &fakeBackend{}
	p := NewPoller(fb, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := p.Poll(ctx, userSession("a@x.com"), "job-1", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	calls := fb.pollCount()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, fb.pollCount(), "no requests after cancellation")
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(&fakeBackend{}, 0, zap.NewNop())
	assert.Equal(t, DefaultPollInterval, p.interval)
}

func newTestSubmitter(fb *fakeBackend) *Submitter {
	s := NewSubmitter(fb, NewPoller(fb, 5*time.Millisecond, zap.NewNop()), zap.NewNop())
	s.tick = time.Millisecond
	return s
}

func TestSubmitterRun(t *testing.T) {
	fb := &fakeBackend{jobs: []backend.ImportJob{
		{Status: backend.JobStatusProcessing},
		{Status: backend.JobStatusCompleted, TotalRows: 2, ValidRows: 2},
	}}
	w := confirmedWizard(t)

	var notified atomic.Int32
	err := newTestSubmitter(fb).Run(context.Background(), userSession("ana@example.com"), w, func() { notified.Add(1) })
	require.NoError(t, err)

	st := w.Snapshot()
	assert.Equal(t, PhaseCompleted, st.Submission.Phase)
	assert.Equal(t, "job-1", st.Submission.JobID)
	assert.Equal(t, "queued", st.Submission.Message)
	assert.Equal(t, 2, st.Submission.Job.ValidRows)
	assert.Equal(t, 1, fb.uploadCount())
	assert.GreaterOrEqual(t, notified.Load(), int32(3))
}

func TestSubmitterUploadFailure(t *testing.T) {
	fb := &fakeBackend{uploadErr: &backend.APIError{Status: 400, Message: "bad mapping"}}
	w := confirmedWizard(t)

	err := newTestSubmitter(fb).Run(context.Background(), userSession("ana@example.com"), w, nil)
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))

	st := w.Snapshot()
	assert.Equal(t, PhaseFailed, st.Submission.Phase)
	assert.Contains(t, st.Submission.Error, "bad mapping")
	assert.Zero(t, fb.pollCount(), "no polling without a job")
}

func TestSubmitterRefusesSecondUpload(t *testing.T) {
	fb := &fakeBackend{uploadGate: make(chan struct{})}
	w := confirmedWizard(t)
	s := newTestSubmitter(fb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, userSession("ana@example.com"), w, nil) }()

	require.Eventually(t, func() bool { return w.Phase() == PhaseUploading }, time.Second, time.Millisecond)
	assert.ErrorIs(t, s.Run(ctx, userSession("ana@example.com"), w, nil), ErrUploadInFlight)

	close(fb.uploadGate)
	cancel()
	<-done
	assert.Equal(t, 1, fb.uploadCount())
}

func TestSubmitterUploadSurvivesCancel(t *testing.T) {
	fb := &fakeBackend{uploadGate: make(chan struct{})}
	w := confirmedWizard(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestSubmitter(fb).Run(ctx, userSession("ana@example.com"), w, nil) }()

	require.Eventually(t, func() bool { return w.Phase() == PhaseUploading }, time.Second, time.Millisecond)
	cancel()
	close(fb.uploadGate)

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, PhasePolling, w.Phase(), "the upload completes; only polling stops")
	assert.Equal(t, "job-1", w.Snapshot().Submission.JobID)
}
