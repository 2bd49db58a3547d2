package import_feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchema(t *testing.T) {
	s, err := GetSchema(TableScholarships)
	require.NoError(t, err)
	assert.Equal(t, "Scholarships", s.DisplayName)

	var required []string
	for _, f := range s.RequiredFields() {
		required = append(required, f.Name)
	}
	assert.Equal(t, []string{"id_universidad", "id_tipo_estudiante", "nombre_beca"}, required)

	_, err = GetSchema("students")
	assert.ErrorIs(t, err, ErrUnknownTable)

	assert.Len(t, AvailableSchemas(), 2)
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"University ID":  "universityid",
		"id_universidad": "iduniversidad",
		" Start-Date ":   "startdate",
		"___":            "",
		"Coverage (%)":   "coverage(%)",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestAutoMatchScholarships(t *testing.T) {
	schema, _ := GetSchema(TableScholarships)
	headers := []string{"Nombre Beca", "University ID", "Student Type ID"}

	mapping := AutoMatch(headers, schema)

	assert.Equal(t, ColumnMapping{
		"University ID":   "id_universidad",
		"Student Type ID": "id_tipo_estudiante",
	}, mapping)
	assert.Equal(t, []string{"Scholarship Name is required"}, Validate(mapping, schema))
	assert.Equal(t, []string{"Nombre Beca"}, mapping.Unmapped(headers))
}

func TestAutoMatchRules(t *testing.T) {
	schema, _ := GetSchema(TablePrograms)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "exact field name", header: "id_universidad", want: "id_universidad"},
		{name: "field name any case", header: "NIVEL", want: "nivel"},
		{name: "normalized label", header: "degree_level", want: "nivel"},
		{name: "label with punctuation", header: "Duration (Semesters)", want: "duracion_semestres"},
		{name: "unrelated header", header: "comments", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping := AutoMatch([]string{tt.header}, schema)
			assert.Equal(t, tt.want, mapping[tt.header])
		})
	}
}

func TestAutoMatchFirstFieldWins(t *testing.T) {
	schema := TableSchema{
		TargetTable: "test",
		Fields: []FieldDefinition{
			{Name: "code", Label: "Ref"},
			{Name: "ref", Label: "Code"},
		},
	}

	mapping := AutoMatch([]string{"code", "Ref"}, schema)

	// "code" matches both fields and takes the first; "Ref" also matches the
	// first field first, which is taken, so it stays unmapped.
	assert.Equal(t, ColumnMapping{"code": "code"}, mapping)
}

func TestAutoMatchDeterministic(t *testing.T) {
	schema, _ := GetSchema(TableScholarships)
	headers := []string{"University ID", "id_universidad", "Scholarship Name", "Amount", "monto", "Deadline"}

	first := AutoMatch(headers, schema)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, AutoMatch(headers, schema))
	}
	assert.Equal(t, "University ID", mustSource(t, first, "id_universidad"))
	assert.Equal(t, "Amount", mustSource(t, first, "monto"))
}

func mustSource(t *testing.T, m ColumnMapping, field string) string {
	t.Helper()
	src, ok := m.SourceFor(field)
	require.True(t, ok, field)
	return src
}

func TestSuggest(t *testing.T) {
	schema, _ := GetSchema(TableScholarships)
	mapping := ColumnMapping{"University ID": "id_universidad"}

	got := Suggest("Nombre Beca", schema, mapping)
	require.NotEmpty(t, got)
	assert.Equal(t, "nombre_beca", got[0].Field)
	assert.InDelta(t, 1.0, got[0].Score, 0.0001)
	assert.LessOrEqual(t, len(got), 3)

	for _, s := range Suggest("Universidad", schema, mapping) {
		assert.NotEqual(t, "id_universidad", s.Field, "assigned fields are never suggested")
	}

	assert.Empty(t, Suggest("zzzz", schema, mapping))
	assert.Equal(t, ColumnMapping{"University ID": "id_universidad"}, mapping)
}

func TestColumnMappingSet(t *testing.T) {
	m := ColumnMapping{"A": "id_universidad", "B": "nombre_beca"}

	moved := m.Set("C", "id_universidad")
	assert.Equal(t, ColumnMapping{"C": "id_universidad", "B": "nombre_beca"}, moved)
	assert.Equal(t, "id_universidad", m["A"], "Set does not mutate the receiver")

	cleared := moved.Set("B", MappingNone)
	assert.Equal(t, ColumnMapping{"C": "id_universidad"}, cleared)

	assert.Equal(t, []string{"B", "C"}, moved.Sources())
}

func TestValidate(t *testing.T) {
	schema, _ := GetSchema(TablePrograms)

	assert.Equal(t, []string{
		"University ID is required",
		"Program Name is required",
		"Field of Study ID is required",
		"Degree Level is required",
	}, Validate(ColumnMapping{}, schema))

	complete := ColumnMapping{"u": "id_universidad", "p": "nombre_programa", "a": "id_area", "n": "nivel"}
	assert.Empty(t, Validate(complete, schema))

	assert.NoError(t, checkTargets(complete, schema))
	assert.ErrorIs(t, checkTargets(ColumnMapping{"x": "nombre_beca"}, schema), ErrInvalidMapping)
}
