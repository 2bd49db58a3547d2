package assessment

import (
	"context"
	"errors"
	"sync"

	"career-console/internal/backend"
	"career-console/internal/identity"
)

type savedAnswers struct {
	req   backend.SaveAnswersRequest
	token string
}

// fakeBackend is an in-memory answer store and grader.
type fakeBackend struct {
	mu      sync.Mutex
	stored  map[string]backend.Answers
	saves   []savedAnswers
	saveErr error
	loadErr error

	gradeErr error
	graded   []backend.GradeRequest
	result   *backend.GradeResult
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{stored: map[string]backend.Answers{}}
}

func (f *fakeBackend) SaveAnswers(ctx context.Context, sess identity.Session, req backend.SaveAnswersRequest) error {
	token, _ := sess.Token(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, savedAnswers{req: req, token: token})
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored[req.Email+"/"+req.TestName] = req.Answers
	return nil
}

func (f *fakeBackend) LoadAnswers(ctx context.Context, sess identity.Session, email, testName string) (backend.Answers, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored[email+"/"+testName], nil
}

func (f *fakeBackend) Grade(ctx context.Context, sess identity.Session, req backend.GradeRequest) (*backend.GradeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graded = append(f.graded, req)
	if f.gradeErr != nil {
		return nil, f.gradeErr
	}
	if f.result != nil {
		res := *f.result
		return &res, nil
	}
	return &backend.GradeResult{TestName: req.TestName, Kind: backend.GradeKindPercentage, Score: 80}, nil
}

func (f *fakeBackend) lastSave() (backend.SaveAnswersRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return backend.SaveAnswersRequest{}, false
	}
	return f.saves[len(f.saves)-1].req, true
}

// savedWith reports whether any save carrying questionID used token.
func (f *fakeBackend) savedWith(token, questionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saves {
		if _, ok := s.req.Answers[questionID]; ok && s.token == token {
			return true
		}
	}
	return false
}

func (f *fakeBackend) gradeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.graded)
}

var errStoreDown = errors.New("store down")

func testUser() identity.Session {
	return identity.NewStaticSession("tok", identity.User{Name: "Ana", Email: "ana@example.com"})
}

// shortTest is a one-minute, two-question test.
func shortTest() Test {
	opts := []Option{{Key: "a", Text: "A"}, {Key: "b", Text: "B"}}
	return Test{
		Name:            "numerical",
		Title:           "Numerical Reasoning",
		Kind:            backend.GradeKindPercentage,
		DurationMinutes: 1,
		Questions: []Question{
			{ID: "1", Prompt: "one", Options: opts},
			{ID: "2", Prompt: "two", Options: opts},
		},
	}
}
