package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"career-console/internal/backend"
	"career-console/internal/identity"

	"go.uber.org/zap"
)

var (
	ErrUnanswered       = errors.New("questions left unanswered")
	ErrAlreadySubmitted = errors.New("test already submitted")
	ErrTimeExpired      = errors.New("time is up for this test")
	ErrInvalidAnswer    = errors.New("invalid answer")
)

// UnansweredError lists the questions that blocked a manual submit.
type UnansweredError struct {
	QuestionIDs []string
}

func (e *UnansweredError) Error() string {
	return fmt.Sprintf("%s: %d question(s)", ErrUnanswered, len(e.QuestionIDs))
}

func (e *UnansweredError) Is(target error) bool {
	return target == ErrUnanswered
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
	// StatusExpired means time ran out and the automatic submit failed.
	StatusExpired Status = "expired"
)

const autoSubmitTimeout = 30 * time.Second

type Grader interface {
	Grade(ctx context.Context, sess identity.Session, req backend.GradeRequest) (*backend.GradeResult, error)
}

type Result struct {
	backend.GradeResult `bson:",inline"`
	HollandCode         string `json:"holland_code,omitempty" bson:"holland_code,omitempty"`
}

// SessionState is a read-only snapshot of a test session.
type SessionState struct {
	ID        string          `json:"id"`
	TestName  string          `json:"test_name"`
	Title     string          `json:"title"`
	Status    Status          `json:"status"`
	Answers   backend.Answers `json:"answers"`
	Answered  int             `json:"answered"`
	Total     int             `json:"total"`
	Timer     TimerState      `json:"timer"`
	Result    *Result         `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Redirect  string          `json:"redirect,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SessionDeps struct {
	Store  AnswerStore
	Grader Grader
	Log    *zap.Logger
	// Notify receives a snapshot after every change, including timer ticks.
	Notify func(SessionState)
}

// TestSession is one user's attempt at one test.
type TestSession struct {
	mu sync.Mutex

	id       string
	user     identity.User
	test     Test
	ident    *identity.Delegate
	answers  backend.Answers
	status   Status
	result   *Result
	errMsg   string
	redirect string

	timer  *Timer
	bridge *Bridge
	grader Grader
	log    *zap.Logger
	notify func(SessionState)

	createdAt time.Time
	updatedAt time.Time
}

func NewTestSession(id string, test Test, ident identity.Session, deps SessionDeps) (*TestSession, error) {
	return newTestSession(id, test, ident, deps, test.DurationMinutes*60)
}

func newTestSession(id string, test Test, ident identity.Session, deps SessionDeps, remaining int) (*TestSession, error) {
	user, ok := ident.CurrentUser()
	if !ok {
		return nil, identity.ErrNotAuthenticated
	}
	if deps.Notify == nil {
		deps.Notify = func(SessionState) {}
	}
	log := deps.Log.With(zap.String("session_id", id), zap.String("test_name", test.Name))

	now := time.Now()
	s := &TestSession{
		id:        id,
		user:      user,
		test:      test,
		ident:     identity.NewDelegate(ident),
		answers:   backend.Answers{},
		status:    StatusInProgress,
		grader:    deps.Grader,
		log:       log,
		notify:    deps.Notify,
		createdAt: now,
		updatedAt: now,
	}
	s.bridge = NewBridge(deps.Store, s.ident, user.Email, test.Name, deps.Log)
	s.timer = newTimerSeconds(test.DurationMinutes*60, remaining, s.autoSubmit, s.leave)
	return s, nil
}

func (s *TestSession) ID() string    { return s.id }
func (s *TestSession) Owner() string { return s.user.Email }

// Refresh points saves and grading at the owner's latest session.
func (s *TestSession) Refresh(ident identity.Session) {
	s.ident.Replace(ident)
}

func (s *TestSession) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Mount restores answers saved by an earlier visit. Fetched answers replace
// whatever is held locally.
func (s *TestSession) Mount(ctx context.Context) {
	saved, ok := s.bridge.Load(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	if s.status == StatusInProgress {
		s.answers = saved
		s.touch()
	}
	s.mu.Unlock()
	s.log.Info("Resumed saved answers", zap.Int("answered", len(saved)))
	s.publish()
}

// Answer records the chosen option and pushes the full answer set to the store.
func (s *TestSession) Answer(ctx context.Context, questionID, option string) error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.test.HasOption(questionID, option) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q is not an option of question %q", ErrInvalidAnswer, option, questionID)
	}
	s.answers[questionID] = option
	s.touch()
	answers := cloneAnswers(s.answers)
	s.mu.Unlock()

	s.bridge.Save(ctx, answers)
	s.publish()
	return nil
}

// Submit grades the session on the user's request. Every question must be
// answered unless time already ran out.
func (s *TestSession) Submit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	switch s.status {
	case StatusSubmitted, StatusSubmitting:
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	case StatusInProgress:
		if missing := s.test.Unanswered(s.answers); len(missing) > 0 {
			s.mu.Unlock()
			return nil, &UnansweredError{QuestionIDs: missing}
		}
	}
	s.status = StatusSubmitting
	s.errMsg = ""
	s.touch()
	answers := cloneAnswers(s.answers)
	s.mu.Unlock()
	s.publish()

	return s.grade(ctx, answers)
}

// autoSubmit is the expiry path: save what was answered, then grade it.
func (s *TestSession) autoSubmit() error {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusSubmitting
	s.touch()
	answers := cloneAnswers(s.answers)
	s.mu.Unlock()
	s.publish()

	s.log.Info("Time expired, submitting automatically", zap.Int("answered", len(answers)))
	ctx, cancel := context.WithTimeout(context.Background(), autoSubmitTimeout)
	defer cancel()

	s.bridge.Save(ctx, answers)
	_, err := s.grade(ctx, answers)
	return err
}

func (s *TestSession) grade(ctx context.Context, answers backend.Answers) (*Result, error) {
	res, err := s.grader.Grade(ctx, s.ident, backend.GradeRequest{
		Name:     s.user.Name,
		Email:    s.user.Email,
		TestName: s.test.Name,
		Answers:  answers,
	})

	s.mu.Lock()
	if err != nil {
		s.status = StatusInProgress
		if s.timer.State().Expired {
			s.status = StatusExpired
		}
		s.errMsg = err.Error()
		s.touch()
		s.mu.Unlock()
		s.log.Warn("Grading failed", zap.Error(err))
		s.publish()
		return nil, err
	}

	result := &Result{GradeResult: *res}
	if res.Kind == backend.GradeKindTraits {
		result.HollandCode = HollandCode(res.Traits)
	}
	s.status = StatusSubmitted
	s.result = result
	s.touch()
	s.mu.Unlock()

	s.timer.MarkSubmitted()
	s.bridge.Clear(ctx)
	s.log.Info("Test graded", zap.String("kind", string(res.Kind)))
	s.publish()
	return result, nil
}

// leave tells the client to move on once an expired test has been handled.
func (s *TestSession) leave() {
	s.mu.Lock()
	if s.status == StatusSubmitted {
		s.redirect = "/results/" + s.test.Name
	} else {
		s.redirect = "/tests"
	}
	s.touch()
	s.mu.Unlock()
	s.publish()
}

// Run drives the countdown until it stops or ctx is cancelled.
func (s *TestSession) Run(ctx context.Context) {
	s.timer.Run(ctx, s.publish)
}

// Tick advances the countdown by one second.
func (s *TestSession) Tick() bool {
	running := s.timer.Tick()
	s.publish()
	return running
}

// Close ends the session. Unsubmitted answers get one detached save attempt.
func (s *TestSession) Close() <-chan struct{} {
	s.mu.Lock()
	pending := s.status == StatusInProgress || s.status == StatusExpired
	answers := cloneAnswers(s.answers)
	s.mu.Unlock()

	s.timer.MarkSubmitted()
	if !pending {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.bridge.Flush(answers)
}

func (s *TestSession) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SessionState{
		ID:        s.id,
		TestName:  s.test.Name,
		Title:     s.test.Title,
		Status:    s.status,
		Answers:   cloneAnswers(s.answers),
		Answered:  len(s.answers),
		Total:     len(s.test.Questions),
		Timer:     s.timer.State(),
		Error:     s.errMsg,
		Redirect:  s.redirect,
		UpdatedAt: s.updatedAt,
	}
	if s.result != nil {
		r := *s.result
		st.Result = &r
	}
	return st
}

func (s *TestSession) writableLocked() error {
	switch {
	case s.status == StatusSubmitted || s.status == StatusSubmitting:
		return ErrAlreadySubmitted
	case s.status == StatusExpired || s.timer.State().Expired:
		return ErrTimeExpired
	}
	return nil
}

func (s *TestSession) publish() {
	s.notify(s.Snapshot())
}

func (s *TestSession) touch() {
	s.updatedAt = time.Now()
}

func cloneAnswers(a backend.Answers) backend.Answers {
	out := make(backend.Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
