package import_feature

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"career-console/internal/backend"
	"career-console/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, fb *fakeBackend, repo ImportRepository) *ImportServiceImpl {
	t.Helper()
	if repo == nil {
		repo = NewMemoryImportRepository()
	}
	svc := NewImportService(repo, fb, &config.Config{JobPollInterval: 5 * time.Millisecond}, zap.NewNop()).(*ImportServiceImpl)
	svc.submitter.tick = time.Millisecond
	t.Cleanup(svc.Shutdown)
	return svc
}

func readySession(t *testing.T, svc ImportService) string {
	t.Helper()
	ctx := context.Background()
	sess := userSession("ana@example.com")

	st, err := svc.CreateSession(ctx, sess)
	require.NoError(t, err)
	_, err = svc.UploadFile(ctx, sess, st.ID, "becas.csv", []byte(scholarshipsCSV), TableScholarships)
	require.NoError(t, err)
	_, err = svc.SetMapping(ctx, sess, st.ID, "Nombre Beca", "nombre_beca")
	require.NoError(t, err)
	_, err = svc.Continue(ctx, sess, st.ID)
	require.NoError(t, err)
	return st.ID
}

func TestServiceSubmitsAndPublishes(t *testing.T) {
	fb := &fakeBackend{
		jobs:       []backend.ImportJob{{Status: backend.JobStatusCompleted, HasRejections: true, InvalidRows: 1}},
		rejections: "row,reason\n2,bad\n",
	}
	svc := newTestService(t, fb, nil)
	ctx := context.Background()
	sess := userSession("ana@example.com")
	id := readySession(t, svc)

	updates, unsubscribe, err := svc.Subscribe(ctx, sess, id)
	require.NoError(t, err)
	defer unsubscribe()

	st, err := svc.Confirm(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StepSubmit, st.Step)

	require.Eventually(t, func() bool {
		select {
		case st := <-updates:
			return st.Submission.Phase == PhaseCompleted
		default:
			return false
		}
	}, 2*time.Second, time.Millisecond)

	var buf bytes.Buffer
	name, err := svc.DownloadRejections(ctx, sess, id, &buf)
	require.NoError(t, err)
	assert.Equal(t, "scholarships-rejections-job-1.csv", name)
	assert.Contains(t, buf.String(), "2,bad")
}

func TestServiceOwnership(t *testing.T) {
	svc := newTestService(t, &fakeBackend{}, nil)
	ctx := context.Background()

	st, err := svc.CreateSession(ctx, userSession("ana@example.com"))
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, userSession("luis@example.com"), st.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession(ctx, userSession("ana@example.com"), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceResetRefusedWhileUploading(t *testing.T) {
	fb := &fakeBackend{uploadGate: make(chan struct{})}
	svc := newTestService(t, fb, nil)
	ctx := context.Background()
	sess := userSession("ana@example.com")
	id := readySession(t, svc)

	_, err := svc.Confirm(ctx, sess, id)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(ctx, sess, id)
		return st.Submission.Phase == PhaseUploading
	}, time.Second, time.Millisecond)

	_, err = svc.Reset(ctx, sess, id)
	assert.ErrorIs(t, err, ErrUploadInFlight)
	_, err = svc.Retry(ctx, sess, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	close(fb.uploadGate)
	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(ctx, sess, id)
		return st.Submission.Phase == PhasePolling
	}, time.Second, time.Millisecond)

	st, err := svc.Reset(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StepUpload, st.Step)
	assert.Equal(t, 1, fb.uploadCount())
}

func TestServiceRetryAfterFailure(t *testing.T) {
	fb := &fakeBackend{uploadErr: &backend.APIError{Status: 502, Message: "gateway"}}
	svc := newTestService(t, fb, nil)
	ctx := context.Background()
	sess := userSession("ana@example.com")
	id := readySession(t, svc)

	_, err := svc.Confirm(ctx, sess, id)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(ctx, sess, id)
		return st.Submission.Phase == PhaseFailed
	}, time.Second, time.Millisecond)

	fb.mu.Lock()
	fb.uploadErr = nil
	fb.jobs = []backend.ImportJob{{Status: backend.JobStatusCompleted}}
	fb.mu.Unlock()

	_, err = svc.Retry(ctx, sess, id)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(ctx, sess, id)
		return st.Submission.Phase == PhaseCompleted
	}, time.Second, time.Millisecond)

	st, _ := svc.GetSession(ctx, sess, id)
	assert.Equal(t, "nombre_beca", st.Mapping["Nombre Beca"], "retry keeps the mapping")
	assert.Equal(t, 2, fb.uploadCount())

	_, err = svc.DownloadRejections(ctx, sess, id, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoRejections)
}

func TestServiceRestoresInterruptedUpload(t *testing.T) {
	repo := NewMemoryImportRepository()
	w := confirmedWizard(t)
	_, err := w.BeginUpload()
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), w.Record()))

	svc := newTestService(t, &fakeBackend{}, repo)
	st, err := svc.GetSession(context.Background(), userSession("ana@example.com"), w.ID())
	require.NoError(t, err)
	assert.Equal(t, PhaseFailed, st.Submission.Phase)
	assert.NotEmpty(t, st.Submission.Error)
}

func TestServiceResumesPolling(t *testing.T) {
	repo := NewMemoryImportRepository()
	w := confirmedWizard(t)
	_, err := w.BeginUpload()
	require.NoError(t, err)
	require.NoError(t, w.UploadSucceeded("job-3", ""))
	require.NoError(t, repo.Save(context.Background(), w.Record()))

	fb := &fakeBackend{jobs: []backend.ImportJob{{Status: backend.JobStatusCompleted}}}
	svc := newTestService(t, fb, repo)
	sess := userSession("ana@example.com")

	_, err = svc.GetSession(context.Background(), sess, w.ID())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(context.Background(), sess, w.ID())
		return st.Submission.Phase == PhaseCompleted
	}, time.Second, time.Millisecond)
	assert.Zero(t, fb.uploadCount(), "resuming never re-uploads")
}

func TestServiceSweepIdle(t *testing.T) {
	svc := newTestService(t, &fakeBackend{}, nil)
	ctx := context.Background()
	sess := userSession("ana@example.com")

	st, err := svc.CreateSession(ctx, sess)
	require.NoError(t, err)

	closed, err := svc.SweepIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, closed)

	closed, err = svc.SweepIdle(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	_, err = svc.GetSession(ctx, sess, st.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceBackgroundWorkUsesLatestToken(t *testing.T) {
	fb := &fakeBackend{
		uploadGate: make(chan struct{}),
		jobs:       []backend.ImportJob{{Status: backend.JobStatusProcessing}, {Status: backend.JobStatusCompleted}},
	}
	svc := newTestService(t, fb, nil)
	ctx := context.Background()
	id := readySession(t, svc)

	_, err := svc.Confirm(ctx, tokenSession("ana@example.com", "tok-1"), id)
	require.NoError(t, err)

	// another user's request must not hand over their token
	_, err = svc.GetSession(ctx, tokenSession("luis@example.com", "tok-luis"), id)
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession(ctx, tokenSession("ana@example.com", "tok-2"), id)
	require.NoError(t, err)
	close(fb.uploadGate)

	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(ctx, tokenSession("ana@example.com", "tok-2"), id)
		return st.Submission.Phase == PhaseCompleted
	}, 2*time.Second, time.Millisecond)

	fb.mu.Lock()
	tokens := append([]string(nil), fb.tokens...)
	fb.mu.Unlock()
	require.NotEmpty(t, tokens)
	for _, tok := range tokens {
		assert.Equal(t, "tok-2", tok)
	}
}

func TestServiceKeepsWorkingWhenStoreFails(t *testing.T) {
	repo := &flakyRepository{MemoryImportRepository: NewMemoryImportRepository()}
	fb := &fakeBackend{jobs: []backend.ImportJob{{Status: backend.JobStatusCompleted}}}
	svc := newTestService(t, fb, repo)
	ctx := context.Background()
	sess := userSession("ana@example.com")
	id := readySession(t, svc)

	repo.failSaves.Store(true)

	st, err := svc.Back(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StepMap, st.Step)
	st, err = svc.Continue(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StepPreview, st.Step)

	st, err = svc.Confirm(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StepSubmit, st.Step)

	require.Eventually(t, func() bool {
		st, _ := svc.GetSession(ctx, sess, id)
		return st.Submission.Phase == PhaseCompleted
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, 1, fb.uploadCount())

	_, err = svc.Confirm(ctx, sess, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	repo.failSaves.Store(false)
	st, err = svc.Reset(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StepUpload, st.Step)

	rec, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepUpload, rec.Step)
}

func TestServiceRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, &fakeBackend{}, nil)
	ctx := context.Background()
	sess := userSession("ana@example.com")

	st, err := svc.CreateSession(ctx, sess)
	require.NoError(t, err)

	_, err = svc.UploadFile(ctx, sess, st.ID, "becas.csv", bytes.Repeat([]byte("a"), MaxSourceFileSize+1), TableScholarships)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	prev := maxRecordSize
	maxRecordSize = 1024
	t.Cleanup(func() { maxRecordSize = prev })

	big := scholarshipsCSV + strings.Repeat("Beca Extra,u-9,st-9\n", 100)
	_, err = svc.UploadFile(ctx, sess, st.ID, "becas.csv", []byte(big), TableScholarships)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	current, err := svc.GetSession(ctx, sess, st.ID)
	require.NoError(t, err)
	assert.Equal(t, StepUpload, current.Step)
	assert.Nil(t, current.File)

	maxRecordSize = prev
	_, err = svc.UploadFile(ctx, sess, st.ID, "becas.csv", []byte(scholarshipsCSV), TableScholarships)
	assert.NoError(t, err)
}

func TestServiceSweepIdleSkipsStreamedSessions(t *testing.T) {
	svc := newTestService(t, &fakeBackend{}, nil)
	ctx := context.Background()
	sess := userSession("ana@example.com")

	st, err := svc.CreateSession(ctx, sess)
	require.NoError(t, err)
	_, unsubscribe, err := svc.Subscribe(ctx, sess, st.ID)
	require.NoError(t, err)

	closed, err := svc.SweepIdle(ctx, -time.Second)
	require.NoError(t, err)
	assert.Zero(t, closed)

	unsubscribe()
	closed, err = svc.SweepIdle(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
}
