package import_feature

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"career-console/internal/backend"
	"career-console/internal/identity"
)

const scholarshipsCSV = "Nombre Beca,University ID,Student Type ID\nBeca Talento,u-1,st-2\nBeca Deporte,u-3,st-1\n"

func userSession(email string) identity.Session {
	return tokenSession(email, "tok")
}

func tokenSession(email, token string) identity.Session {
	return identity.NewStaticSession(token, identity.User{Name: email, Email: email})
}

// fakeBackend records uploads and serves scripted job states.
type fakeBackend struct {
	mu sync.Mutex

	uploadErr  error
	uploadGate chan struct{}
	uploads    []backend.UploadRequest

	jobs     []backend.ImportJob
	jobErrs  int
	getCalls int

	rejections    string
	rejectionsErr error

	// tokens seen by every call, in order
	tokens []string
}

func (f *fakeBackend) seen(ctx context.Context, sess identity.Session) {
	token, _ := sess.Token(ctx)
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
}

func (f *fakeBackend) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		return ""
	}
	return f.tokens[len(f.tokens)-1]
}

func (f *fakeBackend) UploadImport(ctx context.Context, sess identity.Session, req backend.UploadRequest) (*backend.UploadResponse, error) {
	if f.uploadGate != nil {
		<-f.uploadGate
	}
	f.seen(ctx, sess)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, req)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &backend.UploadResponse{JobID: "job-1", Message: "queued"}, nil
}

func (f *fakeBackend) GetJob(ctx context.Context, sess identity.Session, jobID string) (*backend.ImportJob, error) {
	f.seen(ctx, sess)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.jobErrs > 0 {
		f.jobErrs--
		return nil, errors.New("temporarily unavailable")
	}
	if len(f.jobs) == 0 {
		return &backend.ImportJob{ID: backend.JobID(jobID), Status: backend.JobStatusProcessing}, nil
	}
	job := f.jobs[0]
	if len(f.jobs) > 1 {
		f.jobs = f.jobs[1:]
	}
	job.ID = backend.JobID(jobID)
	return &job, nil
}

func (f *fakeBackend) DownloadRejections(ctx context.Context, sess identity.Session, jobID string, w io.Writer) (int64, error) {
	f.mu.Lock()
	rejErr := f.rejectionsErr
	f.mu.Unlock()
	if rejErr != nil {
		return 0, rejErr
	}
	n, err := io.Copy(w, strings.NewReader(f.rejections))
	return n, err
}

// flakyRepository fails every Save while failSaves is set.
type flakyRepository struct {
	*MemoryImportRepository
	failSaves atomic.Bool
}

func (r *flakyRepository) Save(ctx context.Context, rec *WizardRecord) error {
	if r.failSaves.Load() {
		return errors.New("store unavailable")
	}
	return r.MemoryImportRepository.Save(ctx, rec)
}

func (f *fakeBackend) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func (f *fakeBackend) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}
