package import_feature

import (
	"errors"
	"testing"

	"career-console/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedWizard(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard("s-1", "ana@example.com")
	require.NoError(t, w.LoadFile("becas.csv", []byte(scholarshipsCSV), TableScholarships))
	return w
}

func confirmedWizard(t *testing.T) *Wizard {
	t.Helper()
	w := loadedWizard(t)
	require.NoError(t, w.SetMapping("Nombre Beca", "nombre_beca"))
	require.NoError(t, w.Continue())
	require.NoError(t, w.Confirm())
	return w
}

func TestWizardHappyPath(t *testing.T) {
	w := loadedWizard(t)
	st := w.Snapshot()
	assert.Equal(t, StepMap, st.Step)
	assert.Equal(t, 2, st.TotalRows)
	assert.False(t, st.CanContinue)
	assert.Equal(t, []string{"Scholarship Name is required"}, st.Violations)
	require.Contains(t, st.Suggestions, "Nombre Beca")
	assert.Equal(t, "nombre_beca", st.Suggestions["Nombre Beca"][0].Field)

	err := w.Continue()
	var incomplete *MappingIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.ErrorIs(t, err, ErrMappingIncomplete)
	assert.Equal(t, []string{"Scholarship Name is required"}, incomplete.Violations)
	assert.Equal(t, StepMap, w.Step())

	require.NoError(t, w.SetMapping("Nombre Beca", "nombre_beca"))
	assert.True(t, w.Snapshot().CanContinue)
	require.NoError(t, w.Continue())
	assert.Equal(t, StepPreview, w.Step())

	require.NoError(t, w.Confirm())
	assert.Equal(t, StepSubmit, w.Step())
	assert.Equal(t, PhaseIdle, w.Phase())

	req, err := w.BeginUpload()
	require.NoError(t, err)
	assert.Equal(t, "scholarships", req.TargetTable)
	assert.Equal(t, "nombre_beca", req.Mapping["Nombre Beca"])
	assert.Equal(t, PhaseUploading, w.Phase())

	require.NoError(t, w.UploadSucceeded("job-1", "queued"))
	assert.Equal(t, 100, w.Snapshot().Submission.UploadProgress)

	assert.True(t, w.JobUpdated(backend.ImportJob{Status: backend.JobStatusProcessing}))
	assert.Equal(t, PhasePolling, w.Phase())
	assert.True(t, w.JobUpdated(backend.ImportJob{Status: backend.JobStatusCompleted, ValidRows: 2}))
	assert.Equal(t, PhaseCompleted, w.Phase())
	assert.False(t, w.JobUpdated(backend.ImportJob{Status: backend.JobStatusFailed}), "terminal phases ignore late polls")
}

func TestWizardRejectsOutOfOrderTransitions(t *testing.T) {
	w := NewWizard("s-1", "ana@example.com")
	assert.ErrorIs(t, w.Continue(), ErrInvalidTransition)
	assert.ErrorIs(t, w.Confirm(), ErrInvalidTransition)
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, w.SetMapping("a", "b"), ErrInvalidTransition)
	_, err := w.BeginUpload()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.ErrorIs(t, w.LoadFile("x.csv", []byte("a\n1\n"), "students"), ErrUnknownTable)
	assert.Equal(t, StepUpload, w.Step())
}

func TestWizardMappingEdits(t *testing.T) {
	w := loadedWizard(t)

	require.NoError(t, w.SetMapping("Nombre Beca", "id_universidad"))
	st := w.Snapshot()
	assert.Equal(t, "id_universidad", st.Mapping["Nombre Beca"])
	_, stillMapped := st.Mapping["University ID"]
	assert.False(t, stillMapped, "a field is held by one column at most")

	require.NoError(t, w.SetMapping("Nombre Beca", MappingNone))
	assert.NotContains(t, w.Snapshot().Mapping, "Nombre Beca")

	assert.ErrorIs(t, w.SetMapping("Missing", "nombre_beca"), ErrInvalidMapping)
	assert.ErrorIs(t, w.SetMapping("Nombre Beca", "nombre_programa"), ErrInvalidMapping)
}

func TestWizardChangeTableRematches(t *testing.T) {
	w := loadedWizard(t)
	require.NoError(t, w.ChangeTable(TablePrograms))

	st := w.Snapshot()
	assert.Equal(t, TablePrograms, st.TargetTable)
	assert.Equal(t, ColumnMapping{"University ID": "id_universidad"}, st.Mapping)
	assert.Contains(t, st.Violations, "Program Name is required")
}

func TestWizardBack(t *testing.T) {
	w := loadedWizard(t)
	require.NoError(t, w.SetMapping("Nombre Beca", "nombre_beca"))
	require.NoError(t, w.Continue())

	require.NoError(t, w.Back())
	assert.Equal(t, StepMap, w.Step())
	assert.Equal(t, "nombre_beca", w.Snapshot().Mapping["Nombre Beca"], "Preview -> Map keeps the mapping")

	require.NoError(t, w.Back())
	st := w.Snapshot()
	assert.Equal(t, StepUpload, st.Step)
	assert.Nil(t, st.File)
	assert.Empty(t, st.Mapping)
}

func TestWizardUploadLatch(t *testing.T) {
	w := confirmedWizard(t)

	_, err := w.BeginUpload()
	require.NoError(t, err)
	_, err = w.BeginUpload()
	assert.ErrorIs(t, err, ErrUploadInFlight)
	assert.ErrorIs(t, w.Reset(), ErrUploadInFlight)

	assert.True(t, w.SetUploadProgress(50))
	assert.False(t, w.SetUploadProgress(40), "progress never moves backwards")
	assert.True(t, w.SetUploadProgress(120))
	assert.Equal(t, 90, w.Snapshot().Submission.UploadProgress)

	w.UploadFailed(errors.New("connection reset"))
	st := w.Snapshot()
	assert.Equal(t, PhaseFailed, st.Submission.Phase)
	assert.Equal(t, "connection reset", st.Submission.Error)
	assert.Equal(t, 0, st.Submission.UploadProgress)

	_, err = w.BeginUpload()
	assert.NoError(t, err, "a failed upload may be retried")
}

func TestWizardFailedJobMessage(t *testing.T) {
	w := confirmedWizard(t)
	_, err := w.BeginUpload()
	require.NoError(t, err)
	require.NoError(t, w.UploadSucceeded("job-1", ""))

	w.JobUpdated(backend.ImportJob{Status: backend.JobStatusFailed})
	assert.Equal(t, "The import job failed", w.Snapshot().Submission.Error)
}

func TestWizardReset(t *testing.T) {
	w := confirmedWizard(t)
	_, err := w.BeginUpload()
	require.NoError(t, err)
	require.NoError(t, w.UploadSucceeded("job-1", ""))
	w.JobUpdated(backend.ImportJob{Status: backend.JobStatusCompleted})

	require.NoError(t, w.Reset())
	st := w.Snapshot()
	assert.Equal(t, StepUpload, st.Step)
	assert.Equal(t, PhaseIdle, st.Submission.Phase)
	assert.Empty(t, st.Headers)
	assert.Empty(t, st.TargetTable)
}

func TestWizardRecordRoundTrip(t *testing.T) {
	w := confirmedWizard(t)
	_, err := w.BeginUpload()
	require.NoError(t, err)
	require.NoError(t, w.UploadSucceeded("job-7", "queued"))

	restored := RestoreWizard(w.Record())
	st := restored.Snapshot()
	assert.Equal(t, StepSubmit, st.Step)
	assert.Equal(t, PhasePolling, st.Submission.Phase)
	assert.Equal(t, "job-7", st.Submission.JobID)
	assert.Equal(t, w.Snapshot().Mapping, st.Mapping)
	assert.Equal(t, "ana@example.com", restored.Owner())
}

func TestWizardInterrupt(t *testing.T) {
	w := confirmedWizard(t)
	w.Interrupt("gone")
	assert.Equal(t, PhaseIdle, w.Phase(), "only uploads are interrupted")

	_, err := w.BeginUpload()
	require.NoError(t, err)
	w.Interrupt("gone")
	assert.Equal(t, PhaseFailed, w.Phase())
}
