package backend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether polling must stop at this status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobID accepts both string and numeric ids from the backend.
type JobID string

func (id *JobID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("job id: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

func (id JobID) String() string { return string(id) }

// Timestamp tolerates the timestamp layouts the backend emits, with or
// without a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339))), nil
}

// UploadRequest is one bulk-import submission.
type UploadRequest struct {
	FileName    string
	Content     []byte
	TargetTable string
	Mapping     map[string]string
}

type UploadResponse struct {
	JobID   JobID  `json:"job_id"`
	Message string `json:"message"`
}

// ImportJob is the client's read-only projection of a server import job.
type ImportJob struct {
	ID            JobID      `json:"id" bson:"id"`
	TargetTable   string     `json:"target_table" bson:"target_table"`
	Status        JobStatus  `json:"status" bson:"status"`
	TotalRows     int        `json:"total_rows" bson:"total_rows"`
	ValidRows     int        `json:"valid_rows" bson:"valid_rows"`
	InvalidRows   int        `json:"invalid_rows" bson:"invalid_rows"`
	ErrorMessage  string     `json:"error_message,omitempty" bson:"error_message,omitempty"`
	HasRejections bool       `json:"has_rejections" bson:"has_rejections"`
	CreatedAt     *Timestamp `json:"created_at,omitempty" bson:"created_at,omitempty" swaggertype:"string"`
	StartedAt     *Timestamp `json:"started_at,omitempty" bson:"started_at,omitempty" swaggertype:"string"`
	CompletedAt   *Timestamp `json:"completed_at,omitempty" bson:"completed_at,omitempty" swaggertype:"string"`
}

// Answers maps a question identifier to the chosen option.
type Answers map[string]string

type SaveAnswersRequest struct {
	Email    string  `json:"email"`
	TestName string  `json:"test_name"`
	Answers  Answers `json:"answers"`
}

type loadAnswersResponse struct {
	Answers Answers `json:"answers"`
}

type GradeRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	TestName string  `json:"test_name"`
	Answers  Answers `json:"answers"`
}

type GradeKind string

const (
	GradeKindPercentage GradeKind = "percentage"
	GradeKindTraits     GradeKind = "traits"
)

// GradeResult is the tagged score payload: a percentage for aptitude tests or
// a per-trait breakdown for the personality test.
type GradeResult struct {
	TestName string             `json:"test_name"`
	Kind     GradeKind          `json:"kind"`
	Score    float64            `json:"score,omitempty"`
	Traits   map[string]float64 `json:"traits,omitempty"`
}

type gradeResponse struct {
	TestName string             `json:"test_name"`
	Score    *float64           `json:"score"`
	Traits   map[string]float64 `json:"traits"`
}
