package import_feature

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"career-console/internal/backend"
)

type Step string

const (
	StepUpload  Step = "upload"
	StepMap     Step = "map"
	StepPreview Step = "preview"
	StepSubmit  Step = "submit"
)

// SubmitPhase is the sub-state of the Submit step. Uploading cannot be
// re-entered until the outstanding upload has finished.
type SubmitPhase string

const (
	PhaseIdle      SubmitPhase = "idle"
	PhaseUploading SubmitPhase = "uploading"
	PhasePolling   SubmitPhase = "polling"
	PhaseCompleted SubmitPhase = "completed"
	PhaseFailed    SubmitPhase = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrMappingIncomplete = errors.New("required fields are not mapped")
	ErrInvalidMapping    = errors.New("invalid column mapping")
	ErrUploadInFlight    = errors.New("an upload is already in progress")
)

// MappingIncompleteError carries the violations that blocked Map -> Preview.
type MappingIncompleteError struct {
	Violations []string
}

func (e *MappingIncompleteError) Error() string {
	return fmt.Sprintf("%s: %d violation(s)", ErrMappingIncomplete, len(e.Violations))
}

func (e *MappingIncompleteError) Is(target error) bool {
	return target == ErrMappingIncomplete
}

const (
	maxSimulatedProgress = 90
	jobFailedFallback    = "The import job failed"
)

// Submission tracks the upload and the job it produced.
type Submission struct {
	Phase          SubmitPhase        `json:"phase" bson:"phase"`
	UploadProgress int                `json:"upload_progress" bson:"upload_progress"`
	JobID          string             `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Message        string             `json:"message,omitempty" bson:"message,omitempty"`
	Job            *backend.ImportJob `json:"job,omitempty" bson:"job,omitempty"`
	Error          string             `json:"error,omitempty" bson:"error,omitempty"`
}

// SourceFile is the file chosen in the Upload step.
type SourceFile struct {
	Name    string `bson:"name"`
	Content []byte `bson:"content"`
}

// FileInfo describes the chosen file without its content.
type FileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// State is a read-only snapshot of a wizard session.
type State struct {
	ID          string                  `json:"id"`
	Step        Step                    `json:"step"`
	File        *FileInfo               `json:"file"`
	Headers     []string                `json:"headers"`
	PreviewRows []map[string]string     `json:"preview_rows"`
	TotalRows   int                     `json:"total_rows"`
	TargetTable TargetTable             `json:"target_table,omitempty"`
	Mapping     ColumnMapping           `json:"mapping"`
	Violations  []string                `json:"violations"`
	CanContinue bool                    `json:"can_continue"`
	Suggestions map[string][]Suggestion `json:"suggestions,omitempty"`
	Submission  Submission              `json:"submission"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Wizard is the Upload -> Map -> Preview -> Submit state machine for one
// import session. It is owned by a single session and safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	id         string
	owner      string
	step       Step
	file       *SourceFile
	parsed     *ParsedFile
	table      TargetTable
	mapping    ColumnMapping
	submission Submission
	createdAt  time.Time
	updatedAt  time.Time
}

func NewWizard(id, owner string) *Wizard {
	now := time.Now()
	return &Wizard{
		id:         id,
		owner:      owner,
		step:       StepUpload,
		mapping:    ColumnMapping{},
		submission: Submission{Phase: PhaseIdle},
		createdAt:  now,
		updatedAt:  now,
	}
}

func (w *Wizard) ID() string    { return w.id }
func (w *Wizard) Owner() string { return w.owner }

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Phase() SubmitPhase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submission.Phase
}

func (w *Wizard) UpdatedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

// LoadFile parses the chosen file and, with the target table, moves Upload -> Map.
// The mapping is seeded by AutoMatch.
func (w *Wizard) LoadFile(name string, content []byte, table TargetTable) error {
	schema, err := GetSchema(table)
	if err != nil {
		return err
	}
	parsed, err := ParseSource(name, content)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepUpload {
		return w.transitionError("load file")
	}
	w.file = &SourceFile{Name: name, Content: content}
	w.parsed = parsed
	w.table = table
	w.mapping = AutoMatch(parsed.Headers, schema)
	w.step = StepMap
	w.touch()
	return nil
}

// ChangeTable switches the target table in the Map step and re-runs AutoMatch.
func (w *Wizard) ChangeTable(table TargetTable) error {
	schema, err := GetSchema(table)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepMap {
		return w.transitionError("change table")
	}
	w.table = table
	w.mapping = AutoMatch(w.parsed.Headers, schema)
	w.touch()
	return nil
}

// SetMapping is the Map step's editor: it assigns source to target, or clears
// source when target is MappingNone.
func (w *Wizard) SetMapping(source, target string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepMap {
		return w.transitionError("edit mapping")
	}
	if !w.hasHeader(source) {
		return fmt.Errorf("%w: unknown source column %q", ErrInvalidMapping, source)
	}
	if target != MappingNone && target != "" {
		schema, _ := GetSchema(w.table)
		if _, ok := schema.Field(target); !ok {
			return fmt.Errorf("%w: unknown field %q for %s", ErrInvalidMapping, target, w.table)
		}
	}
	w.mapping = w.mapping.Set(source, target)
	w.touch()
	return nil
}

// Violations lists the required fields still unmapped.
func (w *Wizard) Violations() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.violations()
}

// Continue moves Map -> Preview when no required field is left unmapped.
func (w *Wizard) Continue() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepMap {
		return w.transitionError("continue")
	}
	if v := w.violations(); len(v) > 0 {
		return &MappingIncompleteError{Violations: v}
	}
	w.step = StepPreview
	w.touch()
	return nil
}

// Back moves Preview -> Map, or Map -> Upload discarding the parsed file.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepPreview:
		w.step = StepMap
	case StepMap:
		w.step = StepUpload
		w.file = nil
		w.parsed = nil
		w.mapping = ColumnMapping{}
	default:
		return w.transitionError("back")
	}
	w.touch()
	return nil
}

// Confirm moves Preview -> Submit. Preview is a read-only recap.
func (w *Wizard) Confirm() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPreview {
		return w.transitionError("confirm")
	}
	w.step = StepSubmit
	w.submission = Submission{Phase: PhaseIdle}
	w.touch()
	return nil
}

// BeginUpload enters the Uploading phase and returns what must be sent. It is
// legal only from the idle or failed phase of the Submit step.
func (w *Wizard) BeginUpload() (backend.UploadRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepSubmit {
		return backend.UploadRequest{}, w.transitionError("upload")
	}
	switch w.submission.Phase {
	case PhaseUploading, PhasePolling:
		return backend.UploadRequest{}, ErrUploadInFlight
	case PhaseCompleted:
		return backend.UploadRequest{}, w.transitionError("upload")
	}

	w.submission = Submission{Phase: PhaseUploading}
	w.touch()
	return backend.UploadRequest{
		FileName:    w.file.Name,
		Content:     w.file.Content,
		TargetTable: string(w.table),
		Mapping:     w.mapping.Clone(),
	}, nil
}

// SetUploadProgress advances the simulated progress; it never moves backwards
// and stays below completion until the upload returns.
func (w *Wizard) SetUploadProgress(p int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission.Phase != PhaseUploading {
		return false
	}
	p = min(p, maxSimulatedProgress)
	if p <= w.submission.UploadProgress {
		return false
	}
	w.submission.UploadProgress = p
	w.touch()
	return true
}

// UploadSucceeded moves Uploading -> Polling for the returned job.
func (w *Wizard) UploadSucceeded(jobID, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission.Phase != PhaseUploading {
		return w.transitionError("finish upload")
	}
	w.submission.Phase = PhasePolling
	w.submission.UploadProgress = 100
	w.submission.JobID = jobID
	w.submission.Message = message
	w.touch()
	return nil
}

// UploadFailed moves Uploading -> Failed so the user can retry.
func (w *Wizard) UploadFailed(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission.Phase != PhaseUploading {
		return
	}
	w.submission.Phase = PhaseFailed
	w.submission.UploadProgress = 0
	w.submission.Error = err.Error()
	w.touch()
}

// JobUpdated records a poll result; terminal statuses end the Polling phase.
// It reports whether the update was applied.
func (w *Wizard) JobUpdated(job backend.ImportJob) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission.Phase != PhasePolling {
		return false
	}
	w.submission.Job = &job
	switch job.Status {
	case backend.JobStatusCompleted:
		w.submission.Phase = PhaseCompleted
	case backend.JobStatusFailed:
		w.submission.Phase = PhaseFailed
		w.submission.Error = job.ErrorMessage
		if w.submission.Error == "" {
			w.submission.Error = jobFailedFallback
		}
	}
	w.touch()
	return true
}

// Interrupt fails a submission whose upload or poll can no longer be
// observed, for example after a restart.
func (w *Wizard) Interrupt(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission.Phase != PhaseUploading {
		return
	}
	w.submission.Phase = PhaseFailed
	w.submission.Error = reason
	w.touch()
}

// Reset discards all accumulated state and returns to Upload.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission.Phase == PhaseUploading {
		return ErrUploadInFlight
	}
	w.step = StepUpload
	w.file = nil
	w.parsed = nil
	w.table = ""
	w.mapping = ColumnMapping{}
	w.submission = Submission{Phase: PhaseIdle}
	w.touch()
	return nil
}

// Snapshot returns a copy of the current state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{
		ID:          w.id,
		Step:        w.step,
		Headers:     []string{},
		PreviewRows: []map[string]string{},
		TargetTable: w.table,
		Mapping:     w.mapping.Clone(),
		Violations:  []string{},
		Submission:  w.submission,
		UpdatedAt:   w.updatedAt,
	}
	if w.submission.Job != nil {
		job := *w.submission.Job
		st.Submission.Job = &job
	}
	if w.file != nil {
		st.File = &FileInfo{Name: w.file.Name, Size: len(w.file.Content)}
	}
	if w.parsed != nil {
		st.Headers = append(st.Headers, w.parsed.Headers...)
		for _, row := range w.parsed.PreviewRows() {
			cp := make(map[string]string, len(row))
			for k, v := range row {
				cp[k] = v
			}
			st.PreviewRows = append(st.PreviewRows, cp)
		}
		st.TotalRows = w.parsed.TotalRows
	}
	if w.step == StepMap {
		st.Violations = append(st.Violations, w.violations()...)
		st.CanContinue = len(st.Violations) == 0
		if schema, err := GetSchema(w.table); err == nil {
			for _, h := range w.mapping.Unmapped(st.Headers) {
				if s := Suggest(h, schema, w.mapping); len(s) > 0 {
					if st.Suggestions == nil {
						st.Suggestions = map[string][]Suggestion{}
					}
					st.Suggestions[h] = s
				}
			}
		}
	}
	return st
}

func (w *Wizard) violations() []string {
	schema, err := GetSchema(w.table)
	if err != nil {
		return nil
	}
	return Validate(w.mapping, schema)
}

func (w *Wizard) hasHeader(h string) bool {
	if w.parsed == nil {
		return false
	}
	for _, x := range w.parsed.Headers {
		if x == h {
			return true
		}
	}
	return false
}

func (w *Wizard) touch() {
	w.updatedAt = time.Now()
}

func (w *Wizard) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s in %s step", ErrInvalidTransition, action, w.step)
}
