package assessment

import (
	"context"
	"sync"
	"time"

	"career-console/internal/backend"
	"career-console/internal/identity"

	"go.uber.org/zap"
)

// DefaultFlushTimeout bounds the single attempt made when a session ends.
const DefaultFlushTimeout = 5 * time.Second

type AnswerStore interface {
	SaveAnswers(ctx context.Context, sess identity.Session, req backend.SaveAnswersRequest) error
	LoadAnswers(ctx context.Context, sess identity.Session, email, testName string) (backend.Answers, error)
}

// Bridge keeps the remote answer store in step with a session's answers.
// Every operation is best-effort: failures are logged, never returned.
type Bridge struct {
	store    AnswerStore
	sess     identity.Session
	email    string
	testName string
	log      *zap.Logger

	flushTimeout time.Duration
	loadOnce     sync.Once
	saveMu       sync.Mutex
}

func NewBridge(store AnswerStore, sess identity.Session, email, testName string, log *zap.Logger) *Bridge {
	return &Bridge{
		store:        store,
		sess:         sess,
		email:        email,
		testName:     testName,
		log:          log.With(zap.String("test_name", testName)),
		flushTimeout: DefaultFlushTimeout,
	}
}

// Load fetches previously saved answers. Only the first call reaches the
// store; it reports false when nothing was saved or the fetch failed.
func (b *Bridge) Load(ctx context.Context) (backend.Answers, bool) {
	var (
		answers backend.Answers
		found   bool
	)
	b.loadOnce.Do(func() {
		got, err := b.store.LoadAnswers(ctx, b.sess, b.email, b.testName)
		if err != nil {
			b.log.Debug("Failed to load saved answers", zap.Error(err))
			return
		}
		if len(got) > 0 {
			answers, found = got, true
		}
	})
	return answers, found
}

// Save pushes the full answer set. Saves are serialized so the last call wins.
func (b *Bridge) Save(ctx context.Context, answers backend.Answers) {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	if err := b.store.SaveAnswers(ctx, b.sess, b.request(answers)); err != nil {
		b.log.Warn("Failed to save answers", zap.Error(err))
	}
}

// Flush makes one detached attempt to save answers when the session ends.
// The returned channel is closed once the attempt has finished.
func (b *Bridge) Flush(answers backend.Answers) <-chan struct{} {
	done := make(chan struct{})
	req := b.request(answers)
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), b.flushTimeout)
		defer cancel()
		if err := b.store.SaveAnswers(ctx, b.sess, req); err != nil {
			b.log.Debug("Answer flush dropped", zap.Error(err))
		}
	}()
	return done
}

// Clear marks the stored answers consumed after a successful grading.
func (b *Bridge) Clear(ctx context.Context) {
	b.Save(ctx, backend.Answers{})
}

func (b *Bridge) request(answers backend.Answers) backend.SaveAnswersRequest {
	cp := make(backend.Answers, len(answers))
	for k, v := range answers {
		cp[k] = v
	}
	return backend.SaveAnswersRequest{Email: b.email, TestName: b.testName, Answers: cp}
}
