package assessment

import (
	"time"

	"career-console/internal/backend"
	"career-console/internal/identity"
)

// SessionRecord is the persisted form of a test session.
type SessionRecord struct {
	ID               string          `bson:"_id"`
	OwnerEmail       string          `bson:"owner_email"`
	OwnerName        string          `bson:"owner_name"`
	TestName         string          `bson:"test_name"`
	Answers          backend.Answers `bson:"answers"`
	Status           Status          `bson:"status"`
	RemainingSeconds int             `bson:"remaining_seconds"`
	Result           *Result         `bson:"result,omitempty"`
	Error            string          `bson:"error,omitempty"`
	CreatedAt        time.Time       `bson:"created_at"`
	UpdatedAt        time.Time       `bson:"updated_at"`
}

func (s *TestSession) Record() *SessionRecord {
	st := s.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return &SessionRecord{
		ID:               s.id,
		OwnerEmail:       s.user.Email,
		OwnerName:        s.user.Name,
		TestName:         s.test.Name,
		Answers:          st.Answers,
		Status:           st.Status,
		RemainingSeconds: st.Timer.RemainingSeconds,
		Result:           st.Result,
		Error:            st.Error,
		CreatedAt:        s.createdAt,
		UpdatedAt:        s.updatedAt,
	}
}

// RestoreTestSession rebuilds a session for ident from its record. A grading
// call that was in flight when the record was written is treated as lost.
func RestoreTestSession(rec *SessionRecord, test Test, ident identity.Session, deps SessionDeps) (*TestSession, error) {
	s, err := newTestSession(rec.ID, test, ident, deps, rec.RemainingSeconds)
	if err != nil {
		return nil, err
	}
	if rec.Answers != nil {
		s.answers = cloneAnswers(rec.Answers)
	}
	s.status = rec.Status
	if s.status == StatusSubmitting || s.status == "" {
		s.status = StatusInProgress
	}
	s.result = rec.Result
	s.errMsg = rec.Error
	s.createdAt = rec.CreatedAt
	s.updatedAt = rec.UpdatedAt
	if s.status == StatusSubmitted {
		s.timer.MarkSubmitted()
	}
	return s, nil
}
