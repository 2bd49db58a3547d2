package assessment

import (
	"context"
	"strings"
	"sync"
	"time"

	"career-console/internal/common/events"
	"career-console/internal/identity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssessmentBackend is the slice of the career backend test sessions use.
type AssessmentBackend interface {
	AnswerStore
	Grader
}

type AssessmentService interface {
	Tests() []Test
	StartSession(ctx context.Context, sess identity.Session, testName string) (*SessionState, error)
	GetSession(ctx context.Context, sess identity.Session, id string) (*SessionState, error)
	Answer(ctx context.Context, sess identity.Session, id, questionID, option string) (*SessionState, error)
	Submit(ctx context.Context, sess identity.Session, id string) (*SessionState, error)
	CloseSession(ctx context.Context, sess identity.Session, id string) error
	Subscribe(ctx context.Context, sess identity.Session, id string) (<-chan SessionState, func(), error)
	SweepIdle(ctx context.Context, ttl time.Duration) (int, error)
	Shutdown()
}

// tick snapshots are persisted at this cadence; other changes immediately.
const persistEverySeconds = 15

type liveTest struct {
	session *TestSession
	cancel  context.CancelFunc
}

type AssessmentServiceImpl struct {
	catalog *Catalog
	repo    AssessmentRepository
	backend AssessmentBackend
	hub     *events.Hub[SessionState]
	log     *zap.Logger

	mu        sync.Mutex
	live      map[string]*liveTest
	baseCtx   context.Context
	cancelAll context.CancelFunc
}

func NewAssessmentService(catalog *Catalog, repo AssessmentRepository, backend AssessmentBackend, log *zap.Logger) AssessmentService {
	ctx, cancel := context.WithCancel(context.Background())
	return &AssessmentServiceImpl{
		catalog:   catalog,
		repo:      repo,
		backend:   backend,
		hub:       events.NewHub(func(st SessionState) string { return st.ID }),
		log:       log.Named("assessment"),
		live:      map[string]*liveTest{},
		baseCtx:   ctx,
		cancelAll: cancel,
	}
}

func (s *AssessmentServiceImpl) Tests() []Test {
	return s.catalog.Tests()
}

func (s *AssessmentServiceImpl) StartSession(ctx context.Context, sess identity.Session, testName string) (*SessionState, error) {
	test, err := s.catalog.Get(testName)
	if err != nil {
		return nil, err
	}
	ts, err := NewTestSession(uuid.NewString(), test, sess, s.deps())
	if err != nil {
		return nil, err
	}
	ts.Mount(ctx)
	s.register(ts)

	s.log.Info("Test session started", zap.String("session_id", ts.ID()), zap.String("test_name", testName))
	return s.commit(ctx, ts)
}

func (s *AssessmentServiceImpl) GetSession(ctx context.Context, sess identity.Session, id string) (*SessionState, error) {
	ts, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	st := ts.Snapshot()
	return &st, nil
}

func (s *AssessmentServiceImpl) Answer(ctx context.Context, sess identity.Session, id, questionID, option string) (*SessionState, error) {
	ts, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := ts.Answer(ctx, questionID, option); err != nil {
		return nil, err
	}
	return s.commit(ctx, ts)
}

func (s *AssessmentServiceImpl) Submit(ctx context.Context, sess identity.Session, id string) (*SessionState, error) {
	ts, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	_, gradeErr := ts.Submit(ctx)
	st, err := s.commit(ctx, ts)
	if gradeErr != nil {
		return nil, gradeErr
	}
	if err != nil {
		return nil, err
	}
	s.stop(id)
	return st, nil
}

func (s *AssessmentServiceImpl) CloseSession(ctx context.Context, sess identity.Session, id string) error {
	if _, err := s.load(ctx, sess, id); err != nil {
		return err
	}
	return s.close(ctx, id)
}

func (s *AssessmentServiceImpl) Subscribe(ctx context.Context, sess identity.Session, id string) (<-chan SessionState, func(), error) {
	if _, err := s.load(ctx, sess, id); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(strings.Clone(id))
	return ch, cancel, nil
}

// SweepIdle closes sessions untouched for longer than ttl, flushing their
// answers first.
func (s *AssessmentServiceImpl) SweepIdle(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	ids := map[string]bool{}
	s.mu.Lock()
	for id, lt := range s.live {
		if lt.session.UpdatedAt().Before(cutoff) {
			ids[id] = true
		}
	}
	s.mu.Unlock()

	stored, err := s.repo.FindIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range stored {
		ids[id] = true
	}

	closed := 0
	for id := range ids {
		if s.hub.Subscribers(id) > 0 {
			continue
		}
		if err := s.close(ctx, id); err != nil {
			s.log.Warn("Failed to close idle test session", zap.String("session_id", id), zap.Error(err))
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *AssessmentServiceImpl) Shutdown() {
	s.mu.Lock()
	live := make([]*liveTest, 0, len(s.live))
	for _, lt := range s.live {
		live = append(live, lt)
	}
	s.mu.Unlock()

	for _, lt := range live {
		<-lt.session.Close()
	}
	s.cancelAll()
}

func (s *AssessmentServiceImpl) load(ctx context.Context, sess identity.Session, id string) (*TestSession, error) {
	user, ok := sess.CurrentUser()
	if !ok {
		return nil, identity.ErrNotAuthenticated
	}

	s.mu.Lock()
	lt, isLive := s.live[id]
	s.mu.Unlock()

	var ts *TestSession
	if isLive {
		ts = lt.session
	} else {
		rec, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.OwnerEmail != user.Email {
			return nil, ErrSessionNotFound
		}
		test, err := s.catalog.Get(rec.TestName)
		if err != nil {
			return nil, err
		}
		if ts, err = RestoreTestSession(rec, test, sess, s.deps()); err != nil {
			return nil, err
		}
		ts = s.register(ts)
	}

	if ts.Owner() != user.Email {
		return nil, ErrSessionNotFound
	}
	ts.Refresh(sess)
	return ts, nil
}

// register makes ts live and starts its countdown. When another request
// restored the same session first, that session is returned instead.
func (s *AssessmentServiceImpl) register(ts *TestSession) *TestSession {
	s.mu.Lock()
	if existing, ok := s.live[ts.ID()]; ok {
		s.mu.Unlock()
		return existing.session
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.live[ts.ID()] = &liveTest{session: ts, cancel: cancel}
	s.mu.Unlock()

	if st := ts.Snapshot(); st.Status == StatusInProgress {
		go ts.Run(ctx)
	}
	return ts
}

func (s *AssessmentServiceImpl) stop(id string) {
	s.mu.Lock()
	lt, ok := s.live[id]
	s.mu.Unlock()
	if ok {
		lt.cancel()
	}
}

func (s *AssessmentServiceImpl) close(ctx context.Context, id string) error {
	s.mu.Lock()
	lt, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	if ok {
		lt.cancel()
		lt.session.Close()
	}
	return s.repo.Delete(ctx, id)
}

func (s *AssessmentServiceImpl) deps() SessionDeps {
	return SessionDeps{
		Store:  s.backend,
		Grader: s.backend,
		Log:    s.log,
		Notify: s.onChange,
	}
}

// onChange fans out every snapshot and persists the ones worth keeping.
func (s *AssessmentServiceImpl) onChange(st SessionState) {
	s.hub.Publish(st)

	important := st.Status != StatusInProgress || st.Redirect != "" || st.Timer.Expired
	if !important && st.Timer.RemainingSeconds%persistEverySeconds != 0 {
		return
	}
	s.mu.Lock()
	lt, ok := s.live[st.ID]
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Save(ctx, lt.session.Record()); err != nil {
		s.log.Warn("Failed to persist test session", zap.String("session_id", st.ID), zap.Error(err))
	}
}

func (s *AssessmentServiceImpl) commit(ctx context.Context, ts *TestSession) (*SessionState, error) {
	if err := s.repo.Save(ctx, ts.Record()); err != nil {
		return nil, err
	}
	st := ts.Snapshot()
	return &st, nil
}
