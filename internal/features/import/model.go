package import_feature

import (
	"time"
)

// WizardRecord is the persisted form of a wizard session.
type WizardRecord struct {
	ID          string        `bson:"_id"`
	Owner       string        `bson:"owner"`
	Step        Step          `bson:"step"`
	File        *SourceFile   `bson:"file,omitempty"`
	Parsed      *ParsedFile   `bson:"parsed,omitempty"`
	TargetTable TargetTable   `bson:"target_table,omitempty"`
	Mapping     ColumnMapping `bson:"mapping"`
	Submission  Submission    `bson:"submission"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

// Record captures the wizard for persistence.
func (w *Wizard) Record() *WizardRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec := &WizardRecord{
		ID:          w.id,
		Owner:       w.owner,
		Step:        w.step,
		File:        w.file,
		Parsed:      w.parsed,
		TargetTable: w.table,
		Mapping:     w.mapping.Clone(),
		Submission:  w.submission,
		CreatedAt:   w.createdAt,
		UpdatedAt:   w.updatedAt,
	}
	if w.submission.Job != nil {
		job := *w.submission.Job
		rec.Submission.Job = &job
	}
	return rec
}

// RestoreWizard rebuilds a wizard from its record. Records that no longer
// fit the schema registry fall back to a fresh Upload step.
func RestoreWizard(rec *WizardRecord) *Wizard {
	w := NewWizard(rec.ID, rec.Owner)
	w.createdAt = rec.CreatedAt
	w.updatedAt = rec.UpdatedAt

	if rec.Step == StepUpload || rec.File == nil || rec.Parsed == nil {
		return w
	}
	schema, err := GetSchema(rec.TargetTable)
	if err != nil {
		return w
	}
	mapping := rec.Mapping
	if mapping == nil {
		mapping = ColumnMapping{}
	}
	if checkTargets(mapping, schema) != nil {
		mapping = AutoMatch(rec.Parsed.Headers, schema)
		rec.Step = StepMap
	}

	w.step = rec.Step
	w.file = rec.File
	w.parsed = rec.Parsed
	w.table = rec.TargetTable
	w.mapping = mapping
	if w.step == StepSubmit {
		w.submission = rec.Submission
		if w.submission.Phase == "" {
			w.submission.Phase = PhaseIdle
		}
	}
	return w
}
