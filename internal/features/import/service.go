package import_feature

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"career-console/internal/common/events"
	"career-console/internal/config"
	"career-console/internal/identity"
	"career-console/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoRejections = errors.New("no rejection report available")
	ErrFileTooLarge = errors.New("import file is too large")
)

// MaxSourceFileSize bounds the raw upload. The file and its parsed rows are
// stored in one session document, which must also stay under maxRecordSize.
const MaxSourceFileSize = 8 << 20

// ImportBackend is the slice of the career backend the import wizard uses.
type ImportBackend interface {
	Uploader
	JobFetcher
	DownloadRejections(ctx context.Context, sess identity.Session, jobID string, w io.Writer) (int64, error)
}

type ImportService interface {
	Schemas() []TableSchema
	CreateSession(ctx context.Context, sess identity.Session) (*State, error)
	GetSession(ctx context.Context, sess identity.Session, id string) (*State, error)
	UploadFile(ctx context.Context, sess identity.Session, id, filename string, content []byte, table TargetTable) (*State, error)
	ChangeTable(ctx context.Context, sess identity.Session, id string, table TargetTable) (*State, error)
	SetMapping(ctx context.Context, sess identity.Session, id, source, target string) (*State, error)
	Continue(ctx context.Context, sess identity.Session, id string) (*State, error)
	Back(ctx context.Context, sess identity.Session, id string) (*State, error)
	Confirm(ctx context.Context, sess identity.Session, id string) (*State, error)
	Retry(ctx context.Context, sess identity.Session, id string) (*State, error)
	Reset(ctx context.Context, sess identity.Session, id string) (*State, error)
	DownloadRejections(ctx context.Context, sess identity.Session, id string, w io.Writer) (string, error)
	Subscribe(ctx context.Context, sess identity.Session, id string) (<-chan State, func(), error)
	CloseSession(ctx context.Context, id string) error
	SweepIdle(ctx context.Context, ttl time.Duration) (int, error)
	Shutdown()
}

type liveSession struct {
	wizard *Wizard
	// ident follows the owner's latest request so background polling
	// keeps a current token.
	ident   *identity.Delegate
	cancel  context.CancelFunc
	running bool
}

type ImportServiceImpl struct {
	repo      ImportRepository
	backend   ImportBackend
	submitter *Submitter
	hub       *events.Hub[State]
	log       *zap.Logger

	mu        sync.Mutex
	live      map[string]*liveSession
	baseCtx   context.Context
	cancelAll context.CancelFunc
}

func NewImportService(repo ImportRepository, backend ImportBackend, cfg *config.Config, log *zap.Logger) ImportService {
	log = log.Named("import")
	ctx, cancel := context.WithCancel(context.Background())
	return &ImportServiceImpl{
		repo:      repo,
		backend:   backend,
		submitter: NewSubmitter(backend, NewPoller(backend, cfg.JobPollInterval, log), log),
		hub:       events.NewHub(func(st State) string { return st.ID }),
		log:       log,
		live:      map[string]*liveSession{},
		baseCtx:   ctx,
		cancelAll: cancel,
	}
}

func (s *ImportServiceImpl) Schemas() []TableSchema {
	return AvailableSchemas()
}

func (s *ImportServiceImpl) CreateSession(ctx context.Context, sess identity.Session) (*State, error) {
	user, ok := sess.CurrentUser()
	if !ok {
		return nil, identity.ErrNotAuthenticated
	}
	w := NewWizard(uuid.NewString(), user.Email)

	s.mu.Lock()
	s.live[w.ID()] = &liveSession{wizard: w, ident: identity.NewDelegate(sess)}
	s.mu.Unlock()

	s.log.Info("Import session created", zap.String("session_id", w.ID()), zap.String("owner", user.Email))
	return s.commit(ctx, w), nil
}

func (s *ImportServiceImpl) GetSession(ctx context.Context, sess identity.Session, id string) (*State, error) {
	ls, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	st := ls.wizard.Snapshot()
	return &st, nil
}

func (s *ImportServiceImpl) UploadFile(ctx context.Context, sess identity.Session, id, filename string, content []byte, table TargetTable) (*State, error) {
	return s.mutate(ctx, sess, id, func(w *Wizard) error {
		if len(content) > MaxSourceFileSize {
			return fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, len(content), MaxSourceFileSize)
		}
		if err := w.LoadFile(filename, content, table); err != nil {
			return err
		}
		size, err := recordSize(w.Record())
		if err != nil {
			return err
		}
		if size > maxRecordSize {
			_ = w.Reset()
			return fmt.Errorf("%w: parsed session needs %d bytes, limit is %d", ErrFileTooLarge, size, maxRecordSize)
		}
		return nil
	})
}

func (s *ImportServiceImpl) ChangeTable(ctx context.Context, sess identity.Session, id string, table TargetTable) (*State, error) {
	return s.mutate(ctx, sess, id, func(w *Wizard) error {
		return w.ChangeTable(table)
	})
}

func (s *ImportServiceImpl) SetMapping(ctx context.Context, sess identity.Session, id, source, target string) (*State, error) {
	return s.mutate(ctx, sess, id, func(w *Wizard) error {
		return w.SetMapping(source, target)
	})
}

func (s *ImportServiceImpl) Continue(ctx context.Context, sess identity.Session, id string) (*State, error) {
	return s.mutate(ctx, sess, id, func(w *Wizard) error {
		return w.Continue()
	})
}

func (s *ImportServiceImpl) Back(ctx context.Context, sess identity.Session, id string) (*State, error) {
	return s.mutate(ctx, sess, id, func(w *Wizard) error {
		return w.Back()
	})
}

func (s *ImportServiceImpl) Confirm(ctx context.Context, sess identity.Session, id string) (*State, error) {
	ls, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := ls.wizard.Confirm(); err != nil {
		return nil, err
	}
	st := s.commit(ctx, ls.wizard)
	s.startSubmit(ls, false)
	return st, nil
}

func (s *ImportServiceImpl) Retry(ctx context.Context, sess identity.Session, id string) (*State, error) {
	ls, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if ls.wizard.Step() != StepSubmit || ls.wizard.Phase() != PhaseFailed {
		return nil, fmt.Errorf("%w: nothing to retry", ErrInvalidTransition)
	}
	st := ls.wizard.Snapshot()
	s.startSubmit(ls, false)
	return &st, nil
}

func (s *ImportServiceImpl) Reset(ctx context.Context, sess identity.Session, id string) (*State, error) {
	ls, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if ls.wizard.Phase() == PhaseUploading {
		return nil, ErrUploadInFlight
	}
	s.stopRun(ls)
	if err := ls.wizard.Reset(); err != nil {
		return nil, err
	}
	return s.commit(ctx, ls.wizard), nil
}

func (s *ImportServiceImpl) DownloadRejections(ctx context.Context, sess identity.Session, id string, w io.Writer) (string, error) {
	ls, err := s.load(ctx, sess, id)
	if err != nil {
		return "", err
	}
	st := ls.wizard.Snapshot()
	job := st.Submission.Job
	if st.Submission.Phase != PhaseCompleted || job == nil || !job.HasRejections {
		return "", ErrNoRejections
	}
	if _, err := s.backend.DownloadRejections(ctx, sess, st.Submission.JobID, w); err != nil {
		return "", err
	}
	return utils.AttachmentName("csv", string(st.TargetTable), "rejections", st.Submission.JobID), nil
}

func (s *ImportServiceImpl) Subscribe(ctx context.Context, sess identity.Session, id string) (<-chan State, func(), error) {
	if _, err := s.load(ctx, sess, id); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(strings.Clone(id))
	return ch, cancel, nil
}

func (s *ImportServiceImpl) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	ls := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	if ls != nil {
		s.stopRun(ls)
	}
	return s.repo.Delete(ctx, id)
}

// SweepIdle closes sessions untouched for longer than ttl. Sessions with an
// outstanding upload or an open stream are left alone.
func (s *ImportServiceImpl) SweepIdle(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	ids := map[string]bool{}
	s.mu.Lock()
	for id, ls := range s.live {
		if ls.wizard.UpdatedAt().Before(cutoff) && !s.busy(id, ls) {
			ids[id] = true
		}
	}
	s.mu.Unlock()

	stored, err := s.repo.FindIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range stored {
		s.mu.Lock()
		ls, isLive := s.live[id]
		s.mu.Unlock()
		if isLive && s.busy(id, ls) {
			continue
		}
		ids[id] = true
	}

	closed := 0
	for id := range ids {
		if err := s.CloseSession(ctx, id); err != nil {
			s.log.Warn("Failed to close idle import session", zap.String("session_id", id), zap.Error(err))
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *ImportServiceImpl) Shutdown() {
	s.cancelAll()
}

func (s *ImportServiceImpl) busy(id string, ls *liveSession) bool {
	return ls.wizard.Phase() == PhaseUploading || s.hub.Subscribers(id) > 0
}

func (s *ImportServiceImpl) mutate(ctx context.Context, sess identity.Session, id string, fn func(w *Wizard) error) (*State, error) {
	ls, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := fn(ls.wizard); err != nil {
		return nil, err
	}
	return s.commit(ctx, ls.wizard), nil
}

// load returns the live session, restoring it from the repository if needed.
func (s *ImportServiceImpl) load(ctx context.Context, sess identity.Session, id string) (*liveSession, error) {
	user, ok := sess.CurrentUser()
	if !ok {
		return nil, identity.ErrNotAuthenticated
	}

	s.mu.Lock()
	ls, isLive := s.live[id]
	s.mu.Unlock()

	if !isLive {
		rec, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		w := RestoreWizard(rec)
		w.Interrupt("The upload was interrupted; retry to submit again")

		s.mu.Lock()
		if existing, raced := s.live[id]; raced {
			ls = existing
		} else {
			ls = &liveSession{wizard: w, ident: identity.NewDelegate(sess)}
			// id may alias the request buffer
			s.live[strings.Clone(id)] = ls
		}
		s.mu.Unlock()
	}

	if ls.wizard.Owner() != user.Email {
		return nil, ErrSessionNotFound
	}
	ls.ident.Replace(sess)

	if ls.wizard.Phase() == PhasePolling {
		s.startSubmit(ls, true)
	}
	return ls, nil
}

// startSubmit runs the upload (or, with resume, only the polling) in the
// background. At most one run exists per session.
func (s *ImportServiceImpl) startSubmit(ls *liveSession, resume bool) {
	s.mu.Lock()
	if ls.running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	ls.running = true
	ls.cancel = cancel
	s.mu.Unlock()

	w := ls.wizard
	notify := func() { s.publish(w) }

	go func() {
		defer func() {
			s.mu.Lock()
			ls.running = false
			ls.cancel = nil
			s.mu.Unlock()
			cancel()
		}()

		var err error
		if resume {
			err = s.submitter.Resume(ctx, ls.ident, w, notify)
		} else {
			err = s.submitter.Run(ctx, ls.ident, w, notify)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("Import submission ended with error", zap.String("session_id", w.ID()), zap.Error(err))
		}
		s.publish(w)
	}()
}

func (s *ImportServiceImpl) stopRun(ls *liveSession) {
	s.mu.Lock()
	cancel := ls.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// commit persists and broadcasts a request's change. The live wizard stays
// authoritative; a failed save is only logged.
func (s *ImportServiceImpl) commit(ctx context.Context, w *Wizard) *State {
	if err := s.repo.Save(ctx, w.Record()); err != nil {
		s.log.Warn("Failed to persist import session", zap.String("session_id", w.ID()), zap.Error(err))
	}
	st := w.Snapshot()
	s.hub.Publish(st)
	return &st
}

// publish persists and broadcasts a background change; failures are logged.
func (s *ImportServiceImpl) publish(w *Wizard) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Save(ctx, w.Record()); err != nil {
		s.log.Warn("Failed to persist import session", zap.String("session_id", w.ID()), zap.Error(err))
	}
	s.hub.Publish(w.Snapshot())
}
